package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/spa-sentirse-bien/spa-server/internal/audit"
	"github.com/spa-sentirse-bien/spa-server/internal/config"
	paymentDomain "github.com/spa-sentirse-bien/spa-server/internal/domain/payment"
	"github.com/spa-sentirse-bien/spa-server/internal/handlers"
	infraRepo "github.com/spa-sentirse-bien/spa-server/internal/infra/repository"
	"github.com/spa-sentirse-bien/spa-server/internal/middleware"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/report"
	"github.com/spa-sentirse-bien/spa-server/internal/session"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
	"github.com/spa-sentirse-bien/spa-server/internal/usecase/account"
	ucAppointment "github.com/spa-sentirse-bien/spa-server/internal/usecase/appointment"
	ucPayment "github.com/spa-sentirse-bien/spa-server/internal/usecase/payment"
	ucReport "github.com/spa-sentirse-bien/spa-server/internal/usecase/report"
	"github.com/spa-sentirse-bien/spa-server/internal/validators"
)

// Deps are the singletons built in main. Charger, Archive and Logo are
// optional.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Sessions *session.Manager
	Audit    *audit.Dispatcher
	Sweep    *ucAppointment.SweepStale

	Location *time.Location
	Clock    timezone.Clock

	Charger paymentDomain.Charger
	Archive ucPayment.Archiver
	Logo    []byte
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.ErrorReporter(d.Logger),
		middleware.Metrics(),
		middleware.CORS(d.Config.CORSOrigins),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(d.DB)
	accountRepo := infraRepo.NewAccountGormRepository(d.DB)
	reportRepo := infraRepo.NewReportGormRepository(d.DB)

	pdfRenderer := report.NewPDFRenderer(d.Logo, d.Location)

	var checkDomain func(string) bool
	if d.Config.CheckEmailDomain {
		checkDomain = validators.IsEmailDomainValid
	}

	// ======================================================
	// USE CASES
	// ======================================================
	bookedHoursUC := ucAppointment.NewListBookedHours(appointmentRepo)
	createBookingUC := ucAppointment.NewCreateBooking(appointmentRepo, d.Audit, d.Location, d.Clock, d.Logger)
	cancelBookingUC := ucAppointment.NewCancelBooking(appointmentRepo, d.Audit)
	modifyBookingUC := ucAppointment.NewModifyBooking(appointmentRepo, d.Audit, d.Location, d.Clock)
	historyUC := ucAppointment.NewGetHistory(appointmentRepo, d.Sweep, d.Clock, d.Logger)
	reservationsUC := ucAppointment.NewListReservations(appointmentRepo)
	agendaUC := ucAppointment.NewListAgendaByDate(appointmentRepo, d.Clock)
	paidClientsUC := ucAppointment.NewListPaidClients(appointmentRepo, d.Clock)

	finalizeUC := ucPayment.NewFinalizePayment(paymentRepo, d.Charger, d.Audit, d.Clock, d.Logger)
	payAllUC := ucPayment.NewPayAll(finalizeUC)
	pendingUC := ucPayment.NewListPending(paymentRepo)
	invoicesUC := ucPayment.NewListInvoices(paymentRepo)
	invoicePDFUC := ucPayment.NewRenderInvoice(paymentRepo, pdfRenderer, d.Archive, d.Logger)
	paidTodayUC := ucPayment.NewListPaidToday(paymentRepo, d.Clock)

	loginUC := account.NewLogin(accountRepo)
	registerUC := account.NewRegister(accountRepo, checkDomain)
	updateProfileUC := account.NewUpdateProfile(accountRepo)
	staffUC := account.NewStaff(accountRepo, d.Audit)

	reportsUC := ucReport.NewReports(reportRepo, d.Location, report.IncomeTotals)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(loginUC, registerUC, d.Sessions, d.Config.IsProduction())
	meHandler := handlers.NewMeHandler()
	clientHandler := handlers.NewClientHandler(d.DB, updateProfileUC, reservationsUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		bookedHoursUC,
		createBookingUC,
		cancelBookingUC,
		modifyBookingUC,
		historyUC,
	)
	serviceHandler := handlers.NewServiceHandler(d.DB)
	paymentHandler := handlers.NewPaymentHandler(pendingUC, finalizeUC, payAllUC, invoicesUC, invoicePDFUC)
	adminHandler := handlers.NewAdminHandler(d.DB, staffUC, paidClientsUC, d.Sweep)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Location)
	employeeHandler := handlers.NewEmployeePanelHandler(paidTodayUC)
	professionalHandler := handlers.NewProfessionalPanelHandler(agendaUC)
	reportHandler := handlers.NewReportHandler(reportsUC, pdfRenderer, d.Location)
	appWebHandler := handlers.NewAppWebHandler(d.Config.StaticDir)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	auth := middleware.Auth(d.Sessions)
	client := middleware.RequireClient()

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		authAPI := api.Group("/auth")
		{
			authAPI.POST("/login", authHandler.Login)
			authAPI.POST("/register", authHandler.Register)
			authAPI.GET("/status", middleware.OptionalAuth(d.Sessions), authHandler.Status)
			authAPI.POST("/logout", auth, authHandler.Logout)
			authAPI.GET("/current-user", auth, meHandler.CurrentUser)
			authAPI.GET("/me", auth, meHandler.GetMe)
		}

		api.GET("/protected", auth, meHandler.Protected)

		// ------------------------------
		// CLIENT PROFILE
		// ------------------------------
		clientAPI := api.Group("/cliente", auth)
		{
			clientAPI.GET("/perfil", clientHandler.Profile)
			clientAPI.POST("/actualizar-perfil", clientHandler.UpdateProfile)
			clientAPI.GET("/reservas", client, clientHandler.Reservations)
		}

		// ------------------------------
		// BOOKINGS
		// ------------------------------
		bookings := api.Group("/reservas", auth, client)
		{
			bookings.GET("/horas-reservadas/:fecha", appointmentHandler.BookedHours)
			bookings.POST("/crear", appointmentHandler.Create)
			bookings.POST("/cancelar-reserva/:id", appointmentHandler.Cancel)
			bookings.POST("/modificar-reserva/:id", appointmentHandler.Modify)
			bookings.GET("/historial", appointmentHandler.History)
		}

		// ------------------------------
		// SERVICE CATALOG
		// ------------------------------
		services := api.Group("/servicios", auth)
		{
			services.GET("", serviceHandler.List)
			services.POST("", middleware.RequireRole(models.RoleAdmin), serviceHandler.Create)
			services.PATCH("/:id", middleware.RequireRole(models.RoleAdmin), serviceHandler.Update)
		}

		// ------------------------------
		// PAYMENTS
		// ------------------------------
		payments := api.Group("/pagos", auth)
		{
			payments.GET("/pendientes", client, paymentHandler.Pending)
			payments.POST("/finalizar/:id", paymentHandler.Finalize)
			payments.POST("/pagar-todo", client, paymentHandler.PayAll)
			payments.GET("/facturas", client, paymentHandler.Invoices)
			payments.GET("/facturas/:id/pdf", paymentHandler.InvoicePDF)
		}

		// ------------------------------
		// ADMIN PANEL
		// ------------------------------
		admin := api.Group("/admin", auth, middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/clientes", adminHandler.Clients)
			admin.GET("/profesionales", adminHandler.Professionals)
			admin.GET("/empleados", adminHandler.Employees)
			admin.GET("/clientes-dia", adminHandler.ClientsOfDay)
			admin.GET("/clientes-profesional", adminHandler.ClientsByProfessional)
			admin.POST("/add-profesional", adminHandler.AddProfessional)
			admin.DELETE("/remove-profesional", adminHandler.RemoveProfessional)
			admin.POST("/add-empleado", adminHandler.AddEmployee)
			admin.DELETE("/remove-empleado", adminHandler.RemoveEmployee)
			admin.POST("/mantenimiento/purga", adminHandler.Purge)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// STAFF PANELS
		// ------------------------------
		api.GET("/empleado/pagos-dia",
			auth, middleware.RequireRole(models.RoleEmployee, models.RoleAdmin),
			employeeHandler.PaymentsOfDay)

		api.GET("/profesional/turnos",
			auth, middleware.RequireRole(models.RoleProfessional),
			professionalHandler.Appointments)

		// ------------------------------
		// REPORTS
		// ------------------------------
		reports := api.Group("/informes", auth, middleware.RequireRole(models.RoleAdmin))
		{
			reports.POST("/ingresos", reportHandler.Income)
			reports.POST("/ingresos-pdf", reportHandler.IncomePDF)
			reports.POST("/ingresos-xlsx", reportHandler.IncomeXLSX)
			reports.POST("/servicios-profesional", reportHandler.ServicesByProfessional)
			reports.POST("/servicios-profesional-pdf", reportHandler.ServicesByProfessionalPDF)
			reports.POST("/servicios-profesional-xlsx", reportHandler.ServicesByProfessionalXLSX)
		}
	}

	// ======================================================
	// WEB (SPA)
	// ======================================================
	r.NoRoute(appWebHandler.Serve)
}
