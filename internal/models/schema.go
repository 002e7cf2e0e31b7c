package models

// DefaultHeaders is the canonical header set for the order table.
// Index 0 is fixed: it is always "Email" and is never editable.
var DefaultHeaders = []string{
	"Email",
	"Número",
	"Data",
	"Consignatário",
	"Agente de Destino",
	"Remetente",
	"Transportadora",
	"Peças",
	"Peso",
	"Volume",
	"Número da Nota Fiscal",
	"Observações",
	"Número de Rastreamento",
}

// Schema is the singleton document holding the shared column headers.
// Every order's columns array is kept the same length as Headers.
type Schema struct {
	Headers []string `json:"headers"`
}
