package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/jhoicas/docuflow-api/internal/domain/access"
	"github.com/jhoicas/docuflow-api/pkg/jwt"
)

type actorKey struct{}

// ActorFromContext recupera el actor inyectado por el handler. Sin token el
// actor es anónimo y los usecases responden con el error de autenticación.
func ActorFromContext(ctx context.Context) access.Actor {
	a, _ := ctx.Value(actorKey{}).(access.Actor)
	return a
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler sirve POST /graphql. La autenticación usa el mismo Bearer Token que
// el adapter REST; el control de roles queda en los usecases.
type Handler struct {
	schema    graphql.Schema
	jwtSecret string
}

// NewHandler construye el handler HTTP del endpoint GraphQL.
func NewHandler(schema graphql.Schema, jwtSecret string) *Handler {
	return &Handler{schema: schema, jwtSecret: jwtSecret}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "método no soportado, use POST", http.StatusMethodNotAllowed)
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "cuerpo inválido", http.StatusBadRequest)
		return
	}

	ctx := context.WithValue(r.Context(), actorKey{}, h.actor(r))
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// actor extrae el actor del Bearer Token; token ausente o inválido produce un
// actor anónimo (los usecases deciden qué operaciones lo admiten).
func (h *Handler) actor(r *http.Request) access.Actor {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return access.Actor{}
	}
	userID, username, role, err := jwt.Parse(h.jwtSecret, strings.TrimSpace(parts[1]))
	if err != nil {
		return access.Actor{}
	}
	return access.Actor{ID: userID, Username: username, Role: role}
}
