package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/infra"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func venta(usuario *uuid.UUID, metodo, subtotal, iva, total string, articulos int, at time.Time) model.AuditLog {
	return model.AuditLog{
		UsuarioID: usuario,
		Accion:    model.AccionVentaCreada,
		Tabla:     "sales",
		Nuevos: model.ResumenVenta{
			MetodoPago: metodo, Articulos: articulos,
			Subtotal: subtotal, IVA: iva, Total: total,
		}.JSONMap(),
		CreatedAt: at,
	}
}

func TestConstruirReporte(t *testing.T) {
	dia := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	rep := ConstruirReporte(dia, []model.AuditLog{
		venta(nil, "efectivo", "7.00", "1.12", "8.12", 2, dia),
		venta(nil, "tarjeta", "10.00", "1.60", "11.60", 1, dia),
		venta(nil, "efectivo", "2.80", "0.45", "3.25", 1, dia),
		{Accion: model.AccionProductoCreado},
	})

	assert.Equal(t, 3, rep.Ventas)
	assert.Equal(t, 4, rep.Articulos)
	assert.Equal(t, "22.97", rep.Total.StringFixed(2))
	assert.Equal(t, "11.37", rep.PorMetodo["Efectivo"].StringFixed(2))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "reporte_diario", []byte(rep.Texto("Cafetería Central")))
}

func TestProximaEjecucion(t *testing.T) {
	loc := time.UTC
	antes := time.Date(2026, 10, 16, 6, 59, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 16, 7, 0, 0, 0, loc), ProximaEjecucion(antes, 7))

	justo := time.Date(2026, 10, 16, 7, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 10, 17, 7, 0, 0, 0, loc), ProximaEjecucion(justo, 7))
}

type colaMemoria struct{ jobs []EmailJob }

func (c *colaMemoria) EnqueueEmail(_ context.Context, job EmailJob) error {
	c.jobs = append(c.jobs, job)
	return nil
}

func TestEnviarReportes_ConfiguracionEfectiva(t *testing.T) {
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	perfiles := repository.NewPerfilRepository(db)
	configs := repository.NewConfiguracionRepository(db)
	auditoria := repository.NewAuditLogRepository(db)

	ana := &model.Perfil{Email: "ana@ejemplo.mx", PasswordHash: "x"}
	beto := &model.Perfil{Email: "beto@ejemplo.mx", PasswordHash: "x"}
	require.NoError(t, perfiles.Create(ctx, ana, model.RolAdministrador))
	require.NoError(t, perfiles.Create(ctx, beto, model.RolVendedor))
	// caro never saved settings: defaults have daily_reports on.
	caro := &model.Perfil{Email: "caro@ejemplo.mx", PasswordHash: "x"}
	require.NoError(t, perfiles.Create(ctx, caro, model.RolAdministrador))
	dani := &model.Perfil{Email: "dani@ejemplo.mx", PasswordHash: "x"}
	require.NoError(t, perfiles.Create(ctx, dani, model.RolCliente))

	cAna := model.ConfiguracionPorDefecto(ana.ID)
	cAna.NombreNegocio = "Cafetería Central"
	require.NoError(t, configs.Create(ctx, &cAna))
	cBeto := model.ConfiguracionPorDefecto(beto.ID)
	cBeto.ReportesDiarios = false
	require.NoError(t, configs.Create(ctx, &cBeto))

	dia := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	for _, l := range []model.AuditLog{
		venta(&ana.ID, "efectivo", "7.00", "1.12", "8.12", 2, dia.Add(10*time.Hour)),
		venta(&beto.ID, "tarjeta", "10.00", "1.60", "11.60", 1, dia.Add(11*time.Hour)),
		venta(&ana.ID, "efectivo", "1.00", "0.16", "1.16", 1, dia.Add(-time.Hour)),
	} {
		l := l
		require.NoError(t, auditoria.Create(ctx, &l))
	}

	cola := &colaMemoria{}
	n, err := EnviarReportes(ctx, ReporteCronConfig{
		Auditoria: auditoria, Configuracion: configs, Perfiles: perfiles, Dispatcher: cola,
	}, dia.Add(15*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	require.Len(t, cola.jobs, 2)
	assert.Equal(t, "ana@ejemplo.mx", cola.jobs[0].To)
	assert.Equal(t, "Cafetería Central: reporte de ventas 15/10/2026", cola.jobs[0].Subject)
	assert.Contains(t, cola.jobs[0].Body, "$8.12")
	assert.NotContains(t, cola.jobs[0].Body, "$11.60")

	assert.Equal(t, "caro@ejemplo.mx", cola.jobs[1].To)
	assert.Equal(t, "Mi Negocio: reporte de ventas 15/10/2026", cola.jobs[1].Subject)
}
