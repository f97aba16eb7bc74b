package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/spa-sentirse-bien/spa-server/internal/config"
	"github.com/spa-sentirse-bien/spa-server/internal/infra/repository"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/routes"
	"github.com/spa-sentirse-bien/spa-server/internal/session"
	"github.com/spa-sentirse-bien/spa-server/internal/testutil"
	ucAppointment "github.com/spa-sentirse-bien/spa-server/internal/usecase/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/validators"
)

var testNow = time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validators.RegisterBindings(); err != nil {
		panic(err)
	}
}

type app struct {
	t        *testing.T
	db       *gorm.DB
	engine   *gin.Engine
	sessions *session.Manager
}

func newApp(t *testing.T) *app {
	t.Helper()

	db := testutil.NewDB(t)
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>spa</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "app.js"), []byte("console.log(1)"), 0o644))

	cfg := &config.Config{StaticDir: static}
	sessions := session.NewManager("test-secret", time.Hour, session.NewMemoryStore())
	clock := testutil.FixedClock(testNow)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   zap.NewNop(),
		Sessions: sessions,
		Sweep:    ucAppointment.NewSweepStale(repository.NewAppointmentGormRepository(db), nil, clock, zap.NewNop()),
		Location: time.UTC,
		Clock:    clock,
	})

	return &app{t: t, db: db, engine: r, sessions: sessions}
}

func (a *app) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *app) tokenFor(role string) string {
	a.t.Helper()
	raw, err := a.sessions.Issue(&models.User{ID: 900, Email: role + "@spa.com", Role: role})
	require.NoError(a.t, err)
	return raw
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

// registerAndLogin creates a client account through the API and returns
// its session token.
func (a *app) registerAndLogin(email string) string {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"nombre":         "Ana",
		"apellido":       "Gómez",
		"email":          email,
		"nombre_usuario": email,
		"password":       "secreto1",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "secreto1"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	decode(a.t, w, &out)
	require.NotEmpty(a.t, out.Token)

	cookies := w.Result().Cookies()
	require.NotEmpty(a.t, cookies)
	assert.Equal(a.t, session.CookieName, cookies[0].Name)
	assert.True(a.t, cookies[0].HttpOnly)

	return out.Token
}

func TestAuthFlow(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/api/auth/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "nadie@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Credenciales inválidas")

	token := a.registerAndLogin("ana@example.com")

	w = a.do(http.MethodGet, "/api/auth/status", token, nil)
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())

	w = a.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rol":"Cliente"`)

	w = a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"nombre": "Ana", "apellido": "Gómez", "email": "ana@example.com",
		"nombre_usuario": "otra", "password": "secreto1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "account_exists")

	w = a.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingAndPaymentFlow(t *testing.T) {
	a := newApp(t)
	testutil.CreateProfessional(t, a.db, "Laura", "laura@spa.com")
	testutil.CreateService(t, a.db, "Masaje", "30.00")
	testutil.CreateService(t, a.db, "Facial", "40.00")
	svc := testutil.CreateService(t, a.db, "Piedras calientes", "50.00")

	token := a.registerAndLogin("ana@example.com")

	// Inside the 72h window.
	w := a.do(http.MethodPost, "/api/reservas/crear", token, gin.H{"fecha": "2025-03-06", "hora": "10:00", "id_servicio": svc.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "too_soon")

	w = a.do(http.MethodPost, "/api/reservas/crear", token, gin.H{"fecha": "10/03/2025", "hora": "14:00", "id_servicio": svc.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_date")

	w = a.do(http.MethodPost, "/api/reservas/crear", token, gin.H{"fecha": "2025-03-10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_fields")

	w = a.do(http.MethodPost, "/api/reservas/crear", token, gin.H{"fecha": "2025-03-10", "hora": "14:00", "id_servicio": svc.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "mensaje")

	w = a.do(http.MethodGet, "/api/reservas/horas-reservadas/2025-03-10", token, nil)
	assert.JSONEq(t, `{"horas_reservadas":["14:00"]}`, w.Body.String())

	w = a.do(http.MethodPost, "/api/reservas/crear", token, gin.H{"fecha": "2025-03-10", "hora": "14:00", "id_servicio": svc.ID})
	assert.Contains(t, w.Body.String(), "slot_taken")

	w = a.do(http.MethodGet, "/api/pagos/pendientes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []struct {
		ID uint `json:"id_pago"`
	}
	decode(t, w, &pending)
	require.Len(t, pending, 1)

	w = a.do(http.MethodPost, "/api/pagos/finalizar/"+itoa(pending[0].ID), token, gin.H{"tipo": "efectivo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_card_type")

	w = a.do(http.MethodPost, "/api/pagos/finalizar/"+itoa(pending[0].ID), token, gin.H{"tipo": "credito", "applyDiscount": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var fin struct {
		InvoiceID uint   `json:"id_factura"`
		Amount    string `json:"monto"`
		Method    string `json:"metodo_pago"`
	}
	decode(t, w, &fin)
	assert.Equal(t, "45", fin.Amount)
	assert.Equal(t, "Tarjeta de Crédito", fin.Method)

	w = a.do(http.MethodPost, "/api/pagos/finalizar/"+itoa(pending[0].ID), token, gin.H{"tipo": "credito"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already_paid")

	w = a.do(http.MethodGet, "/api/pagos/facturas/"+itoa(fin.InvoiceID)+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = a.do(http.MethodGet, "/api/reservas/historial", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pago":"Pagado"`)

	w = a.do(http.MethodGet, "/api/empleado/pagos-dia", a.tokenFor(models.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_ingresos":"45"`)
}

func TestCancelAndModify(t *testing.T) {
	a := newApp(t)
	testutil.CreateProfessional(t, a.db, "Laura", "laura@spa.com")
	svc := testutil.CreateService(t, a.db, "Masaje", "30.00")
	token := a.registerAndLogin("ana@example.com")

	w := a.do(http.MethodPost, "/api/reservas/crear", token, gin.H{"fecha": "2025-03-10", "hora": "14:00", "id_servicio": svc.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	var ap models.Appointment
	require.NoError(t, a.db.First(&ap).Error)

	w = a.do(http.MethodPost, "/api/reservas/modificar-reserva/"+itoa(ap.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "nothing_to_update")

	w = a.do(http.MethodPost, "/api/reservas/modificar-reserva/"+itoa(ap.ID), token, gin.H{"hora": "16:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/reservas/cancelar-reserva/"+itoa(ap.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/reservas/cancelar-reserva/"+itoa(ap.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	other := a.registerAndLogin("beto@example.com")
	w = a.do(http.MethodPost, "/api/reservas/cancelar-reserva/"+itoa(ap.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoleGuards(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/api/reservas/historial", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/api/reservas/historial", a.tokenFor(models.RoleAdmin), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	client := a.registerAndLogin("ana@example.com")
	w = a.do(http.MethodGet, "/api/admin/clientes", client, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/api/admin/clientes", a.tokenFor(models.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@example.com")
}

func TestAdminStaffAndReports(t *testing.T) {
	a := newApp(t)
	admin := a.tokenFor(models.RoleAdmin)

	w := a.do(http.MethodPost, "/api/admin/add-profesional", admin, gin.H{
		"nombre": "Laura", "apellido": "Paz", "especialidad": "Masajes",
		"email": "laura@spa.com", "telefono": "1", "nombre_usuario": "laura", "password": "secreto1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/admin/add-empleado", admin, gin.H{"nombre": "Eva"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/admin/profesionales", admin, nil)
	var pros []models.Professional
	decode(t, w, &pros)
	require.Len(t, pros, 1)

	client := testutil.CreateClient(t, a.db, "ana")
	svc := testutil.CreateService(t, a.db, "Masaje", "50.00")
	ap := testutil.CreateBooking(t, a.db, client.ID, svc.ID, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), "Tarjeta de Débito", "50.00")
	require.NoError(t, a.db.Model(ap).Update("id_profesional", pros[0].ID).Error)

	w = a.do(http.MethodGet, "/api/admin/clientes-profesional?fecha=2025-03-03", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/admin/clientes-profesional?profesional_id="+itoa(pros[0].ID)+"&fecha=2025-03-03", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hora":"10:00"`)

	rng := gin.H{"fecha_inicio": "01/03/2025", "fecha_fin": "31/03/2025"}

	w = a.do(http.MethodPost, "/api/informes/ingresos", admin, rng)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"monto":"50.00"`)
	assert.Contains(t, w.Body.String(), `"fecha_pago":"03/03/2025"`)

	w = a.do(http.MethodPost, "/api/informes/ingresos-pdf", admin, rng)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "informe_ingresos_01-03-2025_31-03-2025.pdf")

	w = a.do(http.MethodPost, "/api/informes/servicios-profesional-xlsx", admin, rng)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w = a.do(http.MethodPost, "/api/informes/servicios-profesional", admin, gin.H{"fecha_inicio": "2025-03-01", "fecha_fin": "31/03/2025"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"fecha_inicio_original":"2025-03-01"`)

	spare := testutil.CreateProfessional(t, a.db, "Sol", "sol@spa.com")
	w = a.do(http.MethodDelete, "/api/admin/remove-profesional", admin, gin.H{"id_profesional": spare.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodDelete, "/api/admin/remove-profesional", admin, gin.H{"id_profesional": spare.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/api/admin/mantenimiento/purga", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"purgados":0`)
}

func TestServiceCatalog(t *testing.T) {
	a := newApp(t)
	admin := a.tokenFor(models.RoleAdmin)

	w := a.do(http.MethodPost, "/api/servicios", admin, gin.H{"nombre": "Masaje", "precio": "30.50"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var svc models.Service
	decode(t, w, &svc)

	w = a.do(http.MethodPatch, "/api/servicios/"+itoa(svc.ID), admin, gin.H{"activo": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/servicios?activo=true", a.tokenFor(models.RoleClient), nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = a.do(http.MethodPost, "/api/servicios", a.tokenFor(models.RoleClient), gin.H{"nombre": "X", "precio": "1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStaticFallbackAndOps(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/app.js", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")

	w = a.do(http.MethodGet, "/reservas/nueva", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spa")

	w = a.do(http.MethodGet, "/api/nada", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route_not_found")

	w = a.do(http.MethodGet, "/health", "", nil)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spa_http_requests_total")
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
