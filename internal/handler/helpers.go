package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/xjoule42/quicksale-pos/internal/apierror"
	"github.com/xjoule42/quicksale-pos/internal/middleware"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0 work on prices.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindOpcional is bindAndValidate for endpoints whose body may be empty.
func bindOpcional(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength == 0 {
		return validar(c, req)
	}
	return bindAndValidate(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads a uuid path parameter, answering 400 when malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// actorDe builds the audit actor from the JWT claims and request metadata.
func actorDe(c *gin.Context) service.Actor {
	a := service.Actor{UserAgent: c.Request.UserAgent(), IP: c.ClientIP()}
	if claims := middleware.GetClaims(c); claims != nil {
		id := claims.UsuarioID()
		a.UsuarioID = &id
	}
	return a
}

func usuarioDe(c *gin.Context) uuid.UUID {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.UsuarioID()
	}
	return uuid.Nil
}

// responderError maps service error kinds to status codes. Anything else is
// logged and answered with fallback, never with the cause.
func responderError(c *gin.Context, err error, fallback string) {
	var se *service.Error
	if errors.As(err, &se) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrNoEncontrado):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrValidacion):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, service.ErrConflicto), errors.Is(err, service.ErrStockInsuficiente):
			status = http.StatusConflict
		case errors.Is(err, service.ErrNoAutorizado):
			status = http.StatusUnauthorized
		}
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg(fallback)
		}
		c.JSON(status, apierror.New(se.Mensaje))
		return
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Msg(fallback)
	c.JSON(http.StatusInternalServerError, apierror.New(fallback))
}
