// Package listado turns list query parameters into a safe, bounded catalog
// query: allow-listed sort column, normalized direction, OR-combined
// case-insensitive search and offset/limit paging.
package listado

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	PaginaPorDefecto = 1
	TamanoPorDefecto = 10
	TamanoMaximo     = 500

	// PaginaMaxima keeps (pagina-1)*tamano from overflowing. Pages past the
	// data simply come back empty.
	PaginaMaxima = math.MaxInt / TamanoMaximo
)

type Direccion string

const (
	Asc  Direccion = "ASC"
	Desc Direccion = "DESC"
)

// Columna is a SQL column expression taken from a Catalogo. It is never built
// from request input.
type Columna struct{ expr string }

// Col declares a column expression. Call it only with constants.
func Col(expr string) Columna { return Columna{expr: expr} }

func (c Columna) String() string { return c.expr }

// Catalogo describes what an entity list may be sorted and searched by.
type Catalogo struct {
	// Ordenables maps the public sortBy key to its column.
	Ordenables map[string]Columna
	// PorIndice maps DataTables order[0][column] indexes to columns.
	PorIndice           []Columna
	PorDefecto          Columna
	DireccionPorDefecto Direccion
	Buscables           []Columna
}

// Consulta is a fully resolved list request.
type Consulta struct {
	Draw      int
	Offset    int
	Limite    int
	Busqueda  string
	Orden     Columna
	Direccion Direccion
	buscables []Columna
}

// Resolver reads draw, page, size, search, sortBy and order.
func (c Catalogo) Resolver(q url.Values) Consulta {
	pagina := entero(q.Get("page"), PaginaPorDefecto)
	if pagina < 1 {
		pagina = PaginaPorDefecto
	}
	pagina = min(pagina, PaginaMaxima)
	tamano := acotar(entero(q.Get("size"), TamanoPorDefecto))

	orden := c.PorDefecto
	if col, ok := c.Ordenables[q.Get("sortBy")]; ok {
		orden = col
	}
	return Consulta{
		Draw:      entero(q.Get("draw"), 0),
		Offset:    (pagina - 1) * tamano,
		Limite:    tamano,
		Busqueda:  strings.TrimSpace(q.Get("search")),
		Orden:     orden,
		Direccion: c.direccion(q.Get("order")),
		buscables: c.Buscables,
	}
}

// ResolverDataTables reads the DataTables server-side parameters: draw,
// start, length, search[value], order[0][column] and order[0][dir].
func (c Catalogo) ResolverDataTables(q url.Values) Consulta {
	offset := entero(q.Get("start"), 0)
	if offset < 0 {
		offset = 0
	}
	orden := c.PorDefecto
	if idx, err := strconv.Atoi(q.Get("order[0][column]")); err == nil && idx >= 0 && idx < len(c.PorIndice) {
		orden = c.PorIndice[idx]
	}
	return Consulta{
		Draw:      entero(q.Get("draw"), 0),
		Offset:    offset,
		Limite:    acotar(entero(q.Get("length"), TamanoPorDefecto)),
		Busqueda:  strings.TrimSpace(q.Get("search[value]")),
		Orden:     orden,
		Direccion: c.direccion(q.Get("order[0][dir]")),
		buscables: c.Buscables,
	}
}

func (c Catalogo) direccion(raw string) Direccion {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(Asc):
		return Asc
	case string(Desc):
		return Desc
	}
	if c.DireccionPorDefecto == "" {
		return Asc
	}
	return c.DireccionPorDefecto
}

// Filtro returns the WHERE fragment and its arguments for the search term,
// or an empty string when there is nothing to filter.
func (q Consulta) Filtro() (string, []any) {
	if q.Busqueda == "" || len(q.buscables) == 0 {
		return "", nil
	}
	patron := "%" + escaparLike(strings.ToLower(q.Busqueda)) + "%"
	partes := make([]string, len(q.buscables))
	args := make([]any, len(q.buscables))
	for i, col := range q.buscables {
		partes[i] = "LOWER(CAST(" + col.expr + " AS TEXT)) LIKE ? ESCAPE '\\'"
		args[i] = patron
	}
	return "(" + strings.Join(partes, " OR ") + ")", args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escaparLike(s string) string { return likeEscaper.Replace(s) }

func entero(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}

func acotar(tamano int) int {
	if tamano < 1 {
		return TamanoPorDefecto
	}
	if tamano > TamanoMaximo {
		return TamanoMaximo
	}
	return tamano
}
