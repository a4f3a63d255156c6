package dto

type KPIs struct {
	Ingresos float64 `json:"ingresos"`
	Ventas   int64   `json:"ventas"`
	Clientes int64   `json:"clientes"`
	Items    int64   `json:"items"`
}

type PuntoSerie struct {
	Fecha    string  `json:"fecha"` // YYYY-MM-DD
	Ingresos float64 `json:"ingresos"`
}

type TopCliente struct {
	ID      uint    `json:"id"`
	Nombres string  `json:"nombres"`
	Compras int64   `json:"compras"`
	Gasto   float64 `json:"gasto"`
}

type TopProducto struct {
	ID       uint   `json:"id"`
	Nombre   string `json:"nombre"`
	Unidades int64  `json:"unidades"`
}

type Dashboard struct {
	KPIs          KPIs          `json:"kpis"`
	SerieIngresos []PuntoSerie  `json:"serieIngresos"`
	TopClientes   []TopCliente  `json:"topClientes"`
	TopProductos  []TopProducto `json:"topProductos"`
}
