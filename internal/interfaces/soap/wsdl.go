package soap

import (
	"github.com/beevik/etree"
)

// operación → pares campo/tipo del request y del response.
type wsdlOperation struct {
	name     string
	request  [][2]string
	response [][2]string
}

var wsdlOperations = []wsdlOperation{
	{
		name: "ImportUser",
		request: [][2]string{
			{"username", "string"}, {"email", "string"}, {"password", "string"},
			{"firstName", "string"}, {"lastName", "string"}, {"role", "string"},
		},
		response: [][2]string{{"userId", "string"}, {"result", "string"}},
	},
	{
		name:    "ExportUser",
		request: [][2]string{{"username", "string"}},
		response: [][2]string{
			{"userId", "string"}, {"username", "string"}, {"email", "string"},
			{"firstName", "string"}, {"lastName", "string"}, {"role", "string"},
		},
	},
	{
		name: "UploadDocument",
		request: [][2]string{
			{"title", "string"}, {"documentType", "string"}, {"filePath", "string"},
		},
		response: [][2]string{
			{"documentId", "string"}, {"status", "string"}, {"category", "string"},
		},
	},
	{
		name:     "GetDocumentStatus",
		request:  [][2]string{{"documentId", "string"}},
		response: [][2]string{{"documentId", "string"}, {"status", "string"}},
	},
}

// buildWSDL genera el documento WSDL 1.1 (SOAP 1.1, document/literal) del
// servicio. Se construye una vez al crear el handler.
func buildWSDL(endpointURL string) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	defs := doc.CreateElement("wsdl:definitions")
	defs.CreateAttr("xmlns:wsdl", "http://schemas.xmlsoap.org/wsdl/")
	defs.CreateAttr("xmlns:soap", "http://schemas.xmlsoap.org/wsdl/soap/")
	defs.CreateAttr("xmlns:xsd", "http://www.w3.org/2001/XMLSchema")
	defs.CreateAttr("xmlns:tns", serviceNS)
	defs.CreateAttr("targetNamespace", serviceNS)
	defs.CreateAttr("name", "DocumentService")

	// types: un element por request y por response
	types := defs.CreateElement("wsdl:types")
	schema := types.CreateElement("xsd:schema")
	schema.CreateAttr("targetNamespace", serviceNS)
	schema.CreateAttr("elementFormDefault", "qualified")
	for _, op := range wsdlOperations {
		addElement(schema, op.name, op.request)
		addElement(schema, op.name+"Response", op.response)
	}

	// messages
	for _, op := range wsdlOperations {
		addMessage(defs, op.name+"Input", op.name)
		addMessage(defs, op.name+"Output", op.name+"Response")
	}

	// portType
	portType := defs.CreateElement("wsdl:portType")
	portType.CreateAttr("name", "DocumentServicePortType")
	for _, op := range wsdlOperations {
		operation := portType.CreateElement("wsdl:operation")
		operation.CreateAttr("name", op.name)
		operation.CreateElement("wsdl:input").CreateAttr("message", "tns:"+op.name+"Input")
		operation.CreateElement("wsdl:output").CreateAttr("message", "tns:"+op.name+"Output")
	}

	// binding
	binding := defs.CreateElement("wsdl:binding")
	binding.CreateAttr("name", "DocumentServiceBinding")
	binding.CreateAttr("type", "tns:DocumentServicePortType")
	soapBinding := binding.CreateElement("soap:binding")
	soapBinding.CreateAttr("style", "document")
	soapBinding.CreateAttr("transport", "http://schemas.xmlsoap.org/soap/http")
	for _, op := range wsdlOperations {
		operation := binding.CreateElement("wsdl:operation")
		operation.CreateAttr("name", op.name)
		soapOp := operation.CreateElement("soap:operation")
		soapOp.CreateAttr("soapAction", serviceNS+"/"+op.name)
		operation.CreateElement("wsdl:input").CreateElement("soap:body").CreateAttr("use", "literal")
		operation.CreateElement("wsdl:output").CreateElement("soap:body").CreateAttr("use", "literal")
	}

	// service
	service := defs.CreateElement("wsdl:service")
	service.CreateAttr("name", "DocumentService")
	port := service.CreateElement("wsdl:port")
	port.CreateAttr("name", "DocumentServicePort")
	port.CreateAttr("binding", "tns:DocumentServiceBinding")
	address := port.CreateElement("soap:address")
	address.CreateAttr("location", endpointURL)

	doc.Indent(2)
	out, _ := doc.WriteToBytes()
	return out
}

func addElement(schema *etree.Element, name string, fields [][2]string) {
	el := schema.CreateElement("xsd:element")
	el.CreateAttr("name", name)
	complexType := el.CreateElement("xsd:complexType")
	seq := complexType.CreateElement("xsd:sequence")
	for _, f := range fields {
		field := seq.CreateElement("xsd:element")
		field.CreateAttr("name", f[0])
		field.CreateAttr("type", "xsd:"+f[1])
		field.CreateAttr("minOccurs", "0")
	}
}

func addMessage(defs *etree.Element, messageName, elementName string) {
	msg := defs.CreateElement("wsdl:message")
	msg.CreateAttr("name", messageName)
	part := msg.CreateElement("wsdl:part")
	part.CreateAttr("name", "parameters")
	part.CreateAttr("element", "tns:"+elementName)
}
