package pos

import (
	"errors"
	"strings"

	"github.com/xjoule42/quicksale-pos/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var ErrProductoNoEncontrado = errors.New("producto no encontrado")

// Normalizar folds case and composes Unicode so that "CAFÉ", "café" and a
// decomposed "café" compare equal.
func Normalizar(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// ResultadoBusqueda is the outcome of the search-to-add shortcut. Producto is
// set when the term resolved to exactly one product; Coincidencias holds the
// candidates when several products matched partially.
type ResultadoBusqueda struct {
	Producto      *model.Producto
	Coincidencias []model.Producto
}

// ResolverBusqueda resolves termino against productos: an exact SKU or name
// match wins, then a single partial match. Zero matches is
// ErrProductoNoEncontrado.
func ResolverBusqueda(termino string, productos []model.Producto) (ResultadoBusqueda, error) {
	t := Normalizar(termino)
	if t == "" {
		return ResultadoBusqueda{}, ErrProductoNoEncontrado
	}

	for i := range productos {
		if Normalizar(productos[i].SKU) == t || Normalizar(productos[i].Nombre) == t {
			p := productos[i]
			return ResultadoBusqueda{Producto: &p}, nil
		}
	}

	var parciales []model.Producto
	for _, p := range productos {
		if strings.Contains(Normalizar(p.Nombre), t) || strings.Contains(Normalizar(p.SKU), t) {
			parciales = append(parciales, p)
		}
	}
	switch len(parciales) {
	case 0:
		return ResultadoBusqueda{}, ErrProductoNoEncontrado
	case 1:
		return ResultadoBusqueda{Producto: &parciales[0]}, nil
	default:
		return ResultadoBusqueda{Coincidencias: parciales}, nil
	}
}
