package validators

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Layouts accepted by the custom binding tags.
const (
	dateLayout    = "2006-01-02"
	hourLayout    = "15:04"
	dmyDateLayout = "02/01/2006"
)

// RegisterBindings adds the fecha, hora and fecha_dmy tags to gin's
// validator. Empty values pass so the tags combine with omitempty.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("fecha", layoutValidator(dateLayout)); err != nil {
		return err
	}
	if err := v.RegisterValidation("hora", layoutValidator(hourLayout)); err != nil {
		return err
	}
	return v.RegisterValidation("fecha_dmy", layoutValidator(dmyDateLayout))
}

func layoutValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse(layout, s)
		return err == nil
	}
}
