package dto

import "github.com/shopspring/decimal"

func init() {
	// Prices and totals travel as JSON numbers, never as strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Listado is the DataTables-compatible envelope returned by every list endpoint.
type Listado[T any] struct {
	Draw            int   `json:"draw"`
	RecordsTotal    int64 `json:"recordsTotal"`
	RecordsFiltered int64 `json:"recordsFiltered"`
	Data            []T   `json:"data"`
}

func NuevoListado[T any](draw int, total, filtrados int64, data []T) *Listado[T] {
	if data == nil {
		data = []T{}
	}
	return &Listado[T]{Draw: draw, RecordsTotal: total, RecordsFiltered: filtrados, Data: data}
}
