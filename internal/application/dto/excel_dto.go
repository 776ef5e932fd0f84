package dto

// ImportRowError error de una fila (número de fila de la hoja, 1 = encabezado).
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult resumen de una carga masiva.
type ImportResult struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Errors  []ImportRowError `json:"errors"`
}

// FileDownload archivo generado para descarga.
type FileDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}
