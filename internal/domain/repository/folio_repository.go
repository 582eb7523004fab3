package repository

// FolioRepository define el puerto del consecutivo fiscal por (negocio, serie).
// Next debe ser atómico bajo escritores concurrentes: nunca emite duplicados
// ni deja huecos.
type FolioRepository interface {
	Next(businessID, series string) (int64, error)
}
