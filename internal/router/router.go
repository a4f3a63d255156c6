package router

import (
	"context"
	"time"

	"farmacia/internal/config"
	"farmacia/internal/handler"
	"farmacia/internal/infra"
	"farmacia/internal/middleware"
	"farmacia/internal/model"
	"farmacia/internal/repository"
	"farmacia/internal/service"
	"farmacia/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const rateLimitPurgeInterval = 5 * time.Minute

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// rdb and mailer may be nil; the dashboard cache and receipt e-mails are
// then disabled. ctx bounds the background goroutines started here.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.BodyLimit(cfg.MaxBodyMB << 20))

	// ── Optional infrastructure ──────────────────────────────────────────────
	var (
		dashCache   service.DashboardCache
		invalidator service.CacheInvalidator
		dispatcher  service.ComprobanteDispatcher
		mailBreaker *infra.CircuitBreaker
	)
	if rdb != nil {
		if cfg.DashboardCacheSeconds > 0 {
			c := infra.NewDashboardCache(rdb, time.Duration(cfg.DashboardCacheSeconds)*time.Second)
			dashCache, invalidator = c, c
		}
		if cfg.MailEnabled() {
			dispatcher = worker.NewDispatcher(rdb)
		}
	}
	if mailer != nil {
		mailBreaker = mailer.Breaker()
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	perfilRepo := repository.NewPerfilRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, perfilRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	productoSvc := service.NewProductoService(productoRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo,
		service.VentaOptions{PermitirStockNegativo: cfg.PermitirStockNegativo},
		invalidator, dispatcher)
	dashboardSvc := service.NewDashboardService(dashboardRepo, dashCache, nil)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	loginRL := middleware.NewLoginRateLimiter()
	go loginRL.RunPurge(ctx, rateLimitPurgeInterval)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailBreaker))
	r.POST("/login", loginRL.Handler(), authH.Login)

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	usuarios := r.Group("/users", jwtMW, middleware.RequireAcceso(model.ModuloUsuarios))
	{
		usuarios.GET("", usuariosH.Listar)
		usuarios.GET("/:id", usuariosH.Obtener)
		usuarios.POST("/create", usuariosH.Crear)
		usuarios.PUT("/:id", usuariosH.Actualizar)
		usuarios.DELETE("/:id", usuariosH.Eliminar)
		usuarios.PATCH("/:id/password", usuariosH.CambiarPassword)
	}

	api := r.Group("/api", jwtMW)
	{
		api.GET("/roles", middleware.RequireAcceso(model.ModuloUsuarios), usuariosH.ListarRoles)

		clientes := api.Group("/clientes", middleware.RequireAcceso(model.ModuloClientes))
		{
			clientes.GET("", clientesH.Listar)
			clientes.POST("", clientesH.Crear)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		productos := api.Group("/productos", middleware.RequireAcceso(model.ModuloProductos))
		{
			productos.GET("", productosH.Listar)
			productos.POST("", productosH.Crear)
			productos.GET("/:id", productosH.Obtener)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Eliminar)
		}

		ventas := api.Group("/ventas", middleware.RequireAcceso(model.ModuloVentas))
		{
			ventas.GET("", ventasH.Listar)
			ventas.POST("", ventasH.Crear)
			ventas.GET("/:id", ventasH.Obtener)
			ventas.GET("/:id/comprobante", ventasH.Comprobante)
			ventas.DELETE("/:id", ventasH.Eliminar)
		}

		api.GET("/dashboard", middleware.RequireAcceso(model.ModuloDashboard), dashboardH.Obtener)
	}

	// Built front end, with SPA fallback for client-side routes.
	r.NoRoute(handler.Estaticos(cfg.StaticDir))

	return r
}
