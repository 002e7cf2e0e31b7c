package dto

type SchemaResponse struct {
	Headers []string `json:"headers"`
}

type SetHeadersRequest struct {
	Headers []string `json:"headers"`
}
