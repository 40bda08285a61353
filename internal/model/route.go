package model

// Route is one entry in the navigation shell. The table is static,
// defined at startup and immutable for the process lifetime.
type Route struct {
	Path    string `json:"path"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Guarded bool   `json:"guarded"`
}

// NavRoutes returns the ordered navigation table served to clients.
func NavRoutes() []Route {
	return []Route{
		{Path: "/dashboard", Label: "Dashboard", Icon: "layout-dashboard", Guarded: true},
		{Path: "/customers", Label: "Clientes", Icon: "users", Guarded: true},
		{Path: "/products", Label: "Produtos", Icon: "package", Guarded: true},
		{Path: "/quotes", Label: "Orçamentos", Icon: "file-text", Guarded: true},
		{Path: "/service-orders", Label: "Ordens de Serviço", Icon: "clipboard-list", Guarded: true},
		{Path: "/history", Label: "Histórico", Icon: "history", Guarded: true},
		{Path: "/reports", Label: "Relatórios", Icon: "bar-chart-3", Guarded: true},
		{Path: "/settings", Label: "Configurações", Icon: "settings", Guarded: true},
	}
}
