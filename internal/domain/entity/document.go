package entity

import "time"

// Tipos de documento soportados.
const (
	DocTypeInvoice  = "Invoice"
	DocTypeContract = "Contract"
	DocTypeReport   = "Report"
)

// ValidDocumentType indica si t pertenece al enum de tipos.
func ValidDocumentType(t string) bool {
	switch t {
	case DocTypeInvoice, DocTypeContract, DocTypeReport:
		return true
	}
	return false
}

// Estados del ciclo de vida de un Document. Mutuamente excluyentes.
//
//	Pending --approve--> Approved
//	Pending --reject---> Rejected
//	Pending --fallo subida remota--> Failed
//
// Approved, Rejected y Failed son terminales; re-subir crea un Document nuevo.
const (
	DocStatusPending  = "Pending"
	DocStatusApproved = "Approved"
	DocStatusRejected = "Rejected"
	DocStatusFailed   = "Failed"
)

// Document representa un documento subido por un usuario.
type Document struct {
	ID           string
	Title        string
	DocumentType string // Invoice, Contract, Report
	FilePath     string // referencia al blob en el storage local
	Status       string // Pending, Approved, Rejected, Failed
	Category     string // etiqueta del clasificador; "" = sin categoría (fallo o pendiente)
	UploadedBy   string // inmutable tras la creación
	UploadedAt   time.Time
	UpdatedAt    time.Time
}

// Terminal indica si el documento ya no admite transiciones de estado.
func (d *Document) Terminal() bool {
	return d.Status != DocStatusPending
}
