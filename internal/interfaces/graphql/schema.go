// Package graphql expone las operaciones de dominio como un endpoint GraphQL,
// equivalente al adapter REST: mismas reglas de roles, mismos usecases.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/application/usecase"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// Deps usecases que resuelven el schema.
type Deps struct {
	DocumentUC *usecase.DocumentUseCase
	WorkflowUC *usecase.WorkflowUseCase
	UserUC     *usecase.UserUseCase
}

// NewSchema construye el schema: queries de listado/detalle y mutations de
// creación, revisión y borrado.
func NewSchema(deps Deps) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username":   &graphql.Field{Type: graphql.String},
			"email":      &graphql.Field{Type: graphql.String},
			"first_name": &graphql.Field{Type: graphql.String},
			"last_name":  &graphql.Field{Type: graphql.String},
			"role":       &graphql.Field{Type: graphql.String},
			"status":     &graphql.Field{Type: graphql.String},
		},
	})

	documentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Document",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":         &graphql.Field{Type: graphql.String},
			"document_type": &graphql.Field{Type: graphql.String},
			"file":          &graphql.Field{Type: graphql.String},
			"status":        &graphql.Field{Type: graphql.String},
			"category":      &graphql.Field{Type: graphql.String},
			"uploaded_by":   &graphql.Field{Type: graphql.String},
			"uploaded_at":   &graphql.Field{Type: graphql.DateTime},
			"updated_at":    &graphql.Field{Type: graphql.DateTime},
		},
	})

	workflowType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Workflow",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"document_id":  &graphql.Field{Type: graphql.String},
			"assigned_to":  &graphql.Field{Type: graphql.String},
			"current_step": &graphql.Field{Type: graphql.String},
			"status":       &graphql.Field{Type: graphql.String},
			"created_at":   &graphql.Field{Type: graphql.DateTime},
			"updated_at":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	workflowDetailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "WorkflowDetail",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"document_id":  &graphql.Field{Type: graphql.String},
			"assigned_to":  &graphql.Field{Type: graphql.String},
			"current_step": &graphql.Field{Type: graphql.String},
			"status":       &graphql.Field{Type: graphql.String},
			"created_at":   &graphql.Field{Type: graphql.DateTime},
			"updated_at":   &graphql.Field{Type: graphql.DateTime},
			"document":     &graphql.Field{Type: documentType},
			"assignee":     &graphql.Field{Type: userType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"allDocuments": &graphql.Field{
				Type:        graphql.NewList(documentType),
				Description: "Managers y administradores ven todos; employees solo los propios.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.DocumentUC.List(p.Context, ActorFromContext(p.Context))
				},
			},
			"documentById": &graphql.Field{
				Type: documentType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return deps.DocumentUC.GetByID(p.Context, ActorFromContext(p.Context), id)
				},
			},
			"workflowsWithDocumentAndUser": &graphql.Field{
				Type:        graphql.NewList(workflowDetailType),
				Description: "Workflows con documento y usuario asignado resueltos. Solo managers y administradores.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					details, err := deps.WorkflowUC.ListAll(p.Context, ActorFromContext(p.Context))
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(details))
					for _, d := range details {
						out = append(out, map[string]interface{}{
							"id":           d.ID,
							"document_id":  d.DocumentID,
							"assigned_to":  d.AssignedTo,
							"current_step": d.CurrentStep,
							"status":       d.Status,
							"created_at":   d.CreatedAt,
							"updated_at":   d.UpdatedAt,
							"document":     d.Document,
							"assignee":     d.Assignee,
						})
					}
					return out, nil
				},
			},
			"allUsers": &graphql.Field{
				Type:        graphql.NewList(userType),
				Description: "Todos los usuarios. Solo administradores.",
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					offset, _ := p.Args["offset"].(int)
					return deps.UserUC.List(p.Context, ActorFromContext(p.Context), limit, offset)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createDocument": &graphql.Field{
				Type:        documentType,
				Description: "Crea un documento con contenido textual; queda Pending y se clasifica.",
				Args: graphql.FieldConfigArgument{
					"title":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"documentType": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"content":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					title, _ := p.Args["title"].(string)
					docType, _ := p.Args["documentType"].(string)
					content, _ := p.Args["content"].(string)
					in := dto.UploadDocumentRequest{Title: title, DocumentType: docType}
					return deps.DocumentUC.Upload(p.Context, ActorFromContext(p.Context), in, []byte(content), title+".txt")
				},
			},
			"updateDocumentStatus": &graphql.Field{
				Type:        documentType,
				Description: "Aprueba (Approved) o rechaza (Rejected) un documento Pending. Solo managers.",
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					status, _ := p.Args["status"].(string)
					var action string
					switch status {
					case entity.DocStatusApproved:
						action = "approve"
					case entity.DocStatusRejected:
						action = "reject"
					default:
						action = status // el usecase lo rechaza con ErrValidation
					}
					return deps.DocumentUC.Review(p.Context, ActorFromContext(p.Context), id, action)
				},
			},
			"deleteDocument": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					if err := deps.DocumentUC.Delete(p.Context, ActorFromContext(p.Context), id); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"createWorkflow": &graphql.Field{
				Type:        workflowType,
				Description: "Asigna una tarea a un employee. Solo managers y administradores.",
				Args: graphql.FieldConfigArgument{
					"documentId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"assignedTo":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"currentStep": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := dto.CreateWorkflowRequest{}
					in.DocumentID, _ = p.Args["documentId"].(string)
					in.AssignedTo, _ = p.Args["assignedTo"].(string)
					in.CurrentStep, _ = p.Args["currentStep"].(string)
					return deps.WorkflowUC.Create(p.Context, ActorFromContext(p.Context), in)
				},
			},
			"updateWorkflowStatus": &graphql.Field{
				Type: workflowType,
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					status, _ := p.Args["status"].(string)
					return deps.WorkflowUC.UpdateStatus(p.Context, ActorFromContext(p.Context), id, status)
				},
			},
			"deleteWorkflow": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					if err := deps.WorkflowUC.Delete(p.Context, ActorFromContext(p.Context), id); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("construir schema graphql: %w", err)
	}
	return schema, nil
}
