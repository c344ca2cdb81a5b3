package router

import (
	"context"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/config"
	"github.com/xjoule42/quicksale-pos/internal/handler"
	"github.com/xjoule42/quicksale-pos/internal/infra"
	"github.com/xjoule42/quicksale-pos/internal/middleware"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"
	"github.com/xjoule42/quicksale-pos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	admin    = model.RolAdministrador
	vendedor = model.RolVendedor
	cliente  = model.RolCliente
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// notificador may be nil (no outbound email). Background helpers started
// here stop when ctx is cancelled.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, monitor *infra.Conectividad, notificador service.Notificador) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	apiLimiter := middleware.NewAPILimitador(1000, time.Minute) // 1000 req/min per IP
	loginLimiter := middleware.NewLoginLimitador()
	go middleware.RunPurga(ctx, 5*time.Minute, apiLimiter, loginLimiter)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Handler())

	// ── Repositories ─────────────────────────────────────────────────────────
	perfilRepo := repository.NewPerfilRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoInventarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	configRepo := repository.NewConfiguracionRepository(db)
	carritoStore := repository.NewCarritoStore(rdb, time.Duration(cfg.CarritoTTLHoras)*time.Hour)

	// ── Services ─────────────────────────────────────────────────────────────
	umbral := cfg.StockBajoUmbral
	auditoriaSvc := service.NewAuditoriaService(auditRepo, perfilRepo)
	configuracionSvc := service.NewConfiguracionService(configRepo, auditoriaSvc)
	authSvc := service.NewAuthService(perfilRepo, auditoriaSvc, monitor, cfg)
	productoSvc := service.NewProductoService(productoRepo, auditoriaSvc, umbral)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, auditoriaSvc, umbral)
	clienteSvc := service.NewClienteService(clienteRepo, auditoriaSvc)
	ventaSvc := service.NewVentaService(carritoStore, productoRepo, configuracionSvc, auditoriaSvc, notificador, umbral)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	carritosH := handler.NewCarritosHandler(ventaSvc)
	ticketsH := handler.NewTicketsHandler(ventaSvc)
	configuracionH := handler.NewConfiguracionHandler(configuracionSvc)
	auditoriaH := handler.NewAuditoriaHandler(auditoriaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(monitor, rdb))
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", loginLimiter.Handler(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check, no auth required
	r.GET("/v1/precio/:sku", consultaH.GetPrecioPorSKU)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/sesion", middleware.RequireRole(admin, vendedor, cliente), authH.Sesion)

		staff := middleware.RequireRole(admin, vendedor)
		soloAdmin := middleware.RequireRole(admin)

		prods := v1.Group("/productos", staff)
		{
			prods.GET("", productosH.Listar)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.POST("", productosH.Crear)
			prods.POST("/importar", productosH.ImportarCSV)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
		}

		inv := v1.Group("/inventario", staff)
		{
			inv.GET("/resumen", inventarioH.Resumen)
			inv.GET("/alertas", inventarioH.ObtenerAlertas)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
			inv.POST("/ajustes", inventarioH.AjustarStock)
		}

		clientes := v1.Group("/clientes", staff)
		{
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.POST("", clientesH.Crear)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		carritos := v1.Group("/carritos", staff)
		{
			carritos.POST("", carritosH.Crear)
			carritos.GET("/:id", carritosH.Obtener)
			carritos.POST("/:id/items", carritosH.AgregarItem)
			carritos.POST("/:id/buscar", carritosH.Buscar)
			carritos.PATCH("/:id/items/:producto_id", carritosH.ActualizarCantidad)
			carritos.DELETE("/:id/items/:producto_id", carritosH.QuitarItem)
			carritos.POST("/:id/vaciar", carritosH.Vaciar)
			carritos.POST("/:id/cancelar", carritosH.Cancelar)
			carritos.POST("/:id/cobrar", carritosH.Cobrar)
		}

		v1.POST("/tickets/render", staff, ticketsH.Render)

		v1.GET("/configuracion", soloAdmin, configuracionH.Obtener)
		v1.PUT("/configuracion", soloAdmin, configuracionH.Guardar)

		v1.GET("/auditoria", soloAdmin, auditoriaH.Listar)

		usuarios := v1.Group("/usuarios", soloAdmin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Eliminar)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
