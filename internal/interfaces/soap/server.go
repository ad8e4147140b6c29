// Package soap expone operaciones de integración batch estilo SOAP 1.1:
// importación/exportación de usuarios y carga de documentos desde rutas
// locales del servidor. Usa encoding/xml para los envelopes; el WSDL se
// construye con etree y se sirve en GET /soap?wsdl.
package soap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/docuflow-api/internal/application/auth"
	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/application/usecase"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/access"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/pkg/jwt"
)

const (
	soapNS    = "http://schemas.xmlsoap.org/soap/envelope/"
	serviceNS = "http://docuflow.example.com/soap"
)

// Handler sirve el endpoint SOAP. La autenticación usa el mismo Bearer Token
// que el resto de adapters.
type Handler struct {
	authUC    *auth.AuthUseCase
	userUC    *usecase.UserUseCase
	docUC     *usecase.DocumentUseCase
	jwtSecret string
	wsdl      []byte
}

// NewHandler construye el handler SOAP. endpointURL es la URL pública del
// endpoint, usada en el WSDL.
func NewHandler(authUC *auth.AuthUseCase, userUC *usecase.UserUseCase, docUC *usecase.DocumentUseCase, jwtSecret, endpointURL string) *Handler {
	return &Handler{
		authUC:    authUC,
		userUC:    userUC,
		docUC:     docUC,
		jwtSecret: jwtSecret,
		wsdl:      buildWSDL(endpointURL),
	}
}

// ── Estructuras SOAP de request ───────────────────────────────────────────────

type requestEnvelope struct {
	XMLName xml.Name    `xml:"Envelope"`
	Body    requestBody `xml:"Body"`
}

type requestBody struct {
	ImportUser        *importUserRequest        `xml:"ImportUser"`
	ExportUser        *exportUserRequest        `xml:"ExportUser"`
	UploadDocument    *uploadDocumentRequest    `xml:"UploadDocument"`
	GetDocumentStatus *getDocumentStatusRequest `xml:"GetDocumentStatus"`
}

type importUserRequest struct {
	Username  string `xml:"username"`
	Email     string `xml:"email"`
	Password  string `xml:"password"`
	FirstName string `xml:"firstName"`
	LastName  string `xml:"lastName"`
	Role      string `xml:"role"`
}

type exportUserRequest struct {
	Username string `xml:"username"`
}

type uploadDocumentRequest struct {
	Title        string `xml:"title"`
	DocumentType string `xml:"documentType"`
	FilePath     string `xml:"filePath"`
}

type getDocumentStatusRequest struct {
	DocumentID string `xml:"documentId"`
}

// ── Estructuras SOAP de response ──────────────────────────────────────────────

type responseEnvelope struct {
	XMLName xml.Name     `xml:"s:Envelope"`
	XmlnsS  string       `xml:"xmlns:s,attr"`
	Body    responseBody `xml:"s:Body"`
}

type responseBody struct {
	Content interface{}
}

func (b responseBody) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = "s:Body"
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Encode(b.Content); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

type importUserResponse struct {
	XMLName xml.Name `xml:"ImportUserResponse"`
	Xmlns   string   `xml:"xmlns,attr"`
	UserID  string   `xml:"userId"`
	Result  string   `xml:"result"`
}

type exportUserResponse struct {
	XMLName   xml.Name `xml:"ExportUserResponse"`
	Xmlns     string   `xml:"xmlns,attr"`
	UserID    string   `xml:"userId"`
	Username  string   `xml:"username"`
	Email     string   `xml:"email"`
	FirstName string   `xml:"firstName"`
	LastName  string   `xml:"lastName"`
	Role      string   `xml:"role"`
}

type uploadDocumentResponse struct {
	XMLName    xml.Name `xml:"UploadDocumentResponse"`
	Xmlns      string   `xml:"xmlns,attr"`
	DocumentID string   `xml:"documentId"`
	Status     string   `xml:"status"`
	Category   string   `xml:"category,omitempty"`
}

type getDocumentStatusResponse struct {
	XMLName    xml.Name `xml:"GetDocumentStatusResponse"`
	Xmlns      string   `xml:"xmlns,attr"`
	DocumentID string   `xml:"documentId"`
	Status     string   `xml:"status"`
}

type soapFault struct {
	XMLName     xml.Name `xml:"s:Fault"`
	FaultCode   string   `xml:"faultcode"`
	FaultString string   `xml:"faultstring"`
}

// ── HTTP ──────────────────────────────────────────────────────────────────────

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := r.URL.Query()["wsdl"]; ok {
			w.Header().Set("Content-Type", "text/xml; charset=utf-8")
			_, _ = w.Write(h.wsdl)
			return
		}
		http.Error(w, "use GET /soap?wsdl o POST con envelope SOAP", http.StatusBadRequest)
	case http.MethodPost:
		h.handleCall(w, r)
	default:
		http.Error(w, "método no soportado", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleCall(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.writeFault(w, "s:Client", "no se pudo leer el request")
		return
	}
	var env requestEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		h.writeFault(w, "s:Client", "envelope SOAP inválido")
		return
	}

	actor := h.actor(r)

	var out interface{}
	switch {
	case env.Body.ImportUser != nil:
		out, err = h.importUser(r, actor, env.Body.ImportUser)
	case env.Body.ExportUser != nil:
		out, err = h.exportUser(r, actor, env.Body.ExportUser)
	case env.Body.UploadDocument != nil:
		out, err = h.uploadDocument(r, actor, env.Body.UploadDocument)
	case env.Body.GetDocumentStatus != nil:
		out, err = h.getDocumentStatus(r, actor, env.Body.GetDocumentStatus)
	default:
		h.writeFault(w, "s:Client", "operación no soportada")
		return
	}
	if err != nil {
		h.writeFault(w, faultCode(err), err.Error())
		return
	}
	h.writeResponse(w, out)
}

// ── Operaciones ───────────────────────────────────────────────────────────────

// importUser registra un usuario (rol employee) y, si el request trae otro
// rol, lo promueve. Solo administradores.
func (h *Handler) importUser(r *http.Request, actor access.Actor, in *importUserRequest) (interface{}, error) {
	if err := access.RequireRole(actor, entity.RoleAdministrator); err != nil {
		return nil, err
	}
	user, err := h.authUC.Register(r.Context(), dto.RegisterRequest{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return nil, err
	}
	if in.Role != "" && in.Role != entity.RoleEmployee {
		user, err = h.userUC.UpdateRole(r.Context(), actor, user.ID, in.Role)
		if err != nil {
			return nil, err
		}
	}
	return &importUserResponse{Xmlns: serviceNS, UserID: user.ID, Result: "imported"}, nil
}

func (h *Handler) exportUser(r *http.Request, actor access.Actor, in *exportUserRequest) (interface{}, error) {
	user, err := h.userUC.GetByUsername(r.Context(), actor, in.Username)
	if err != nil {
		return nil, err
	}
	return &exportUserResponse{
		Xmlns:     serviceNS,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}, nil
}

// uploadDocument carga un archivo desde una ruta local del servidor (flujo de
// importación batch). La ruta se limpia y debe ser absoluta.
func (h *Handler) uploadDocument(r *http.Request, actor access.Actor, in *uploadDocumentRequest) (interface{}, error) {
	clean := filepath.Clean(in.FilePath)
	if !filepath.IsAbs(clean) || strings.Contains(in.FilePath, "..") {
		return nil, fmt.Errorf("%w: filePath debe ser una ruta absoluta", domain.ErrValidation)
	}
	content, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo leer %s", domain.ErrValidation, clean)
	}
	doc, err := h.docUC.Upload(r.Context(), actor, dto.UploadDocumentRequest{
		Title:        in.Title,
		DocumentType: in.DocumentType,
	}, content, filepath.Base(clean))
	if err != nil {
		return nil, err
	}
	return &uploadDocumentResponse{
		Xmlns:      serviceNS,
		DocumentID: doc.ID,
		Status:     doc.Status,
		Category:   doc.Category,
	}, nil
}

func (h *Handler) getDocumentStatus(r *http.Request, actor access.Actor, in *getDocumentStatusRequest) (interface{}, error) {
	doc, err := h.docUC.GetByID(r.Context(), actor, in.DocumentID)
	if err != nil {
		return nil, err
	}
	return &getDocumentStatusResponse{Xmlns: serviceNS, DocumentID: doc.ID, Status: doc.Status}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

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

func (h *Handler) writeResponse(w http.ResponseWriter, content interface{}) {
	env := responseEnvelope{XmlnsS: soapNS, Body: responseBody{Content: content}}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(env)
}

func (h *Handler) writeFault(w http.ResponseWriter, code, message string) {
	env := responseEnvelope{XmlnsS: soapNS, Body: responseBody{Content: soapFault{
		FaultCode:   code,
		FaultString: message,
	}}}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(env)
}

// faultCode separa errores del cliente (validación, auth, not found) de los
// del servidor, al estilo SOAP 1.1.
func faultCode(err error) string {
	for _, sentinel := range []error{
		domain.ErrValidation, domain.ErrUnauthorized, domain.ErrForbidden,
		domain.ErrNotFound, domain.ErrInvalidState,
		domain.ErrUsernameAlreadyExists, domain.ErrEmailAlreadyExists,
	} {
		if errors.Is(err, sentinel) {
			return "s:Client"
		}
	}
	return "s:Server"
}
