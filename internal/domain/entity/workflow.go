package entity

import "time"

// WorkflowStatusInProgress es el estado por defecto de un workflow recién creado.
const WorkflowStatusInProgress = "In Progress"

// Workflow es una tarea de revisión/procesamiento que vincula un Document con
// un usuario asignado. Un Workflow siempre referencia un Document vivo: borrar
// el Document borra en cascada sus Workflows (el Document es el dueño).
type Workflow struct {
	ID          string
	DocumentID  string
	AssignedTo  string
	CurrentStep string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
