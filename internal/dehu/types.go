package dehu

import (
	"encoding/base64"
	"strings"
)

// CodeOK is the success value of codigoRespuesta. The service reports codes as strings.
const CodeOK = "200"

// EventAccepted is the peticionAcceso event meaning the receiver accepts the notification.
const EventAccepted = "1"

// Binary is base64Binary element content, decoded to raw bytes.
// Optional elements are modelled as *Binary so that absence stays distinguishable from empty content.
type Binary []byte

// UnmarshalText decodes base64 text, tolerating the line breaks some producers insert.
func (b *Binary) UnmarshalText(text []byte) error {
	clean := strings.Join(strings.Fields(string(text)), "")
	out, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return err
	}
	*b = out
	return nil
}

// MarshalText encodes the content as base64.
func (b Binary) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(b)), nil
}

// Base64 returns the content base64 encoded, the form in which it is stored locally.
func (b Binary) Base64() string {
	return base64.StdEncoding.EncodeToString(b)
}

// LocateRequest is the payload of localiza.
type LocateRequest struct {
	HolderNIF string `xml:"nifTitular"`
	DateFrom  string `xml:"fechaDesde"`
	DateTo    string `xml:"fechaHasta"`
}

// LocateResponse lists notifications made available to the holder in the window.
type LocateResponse struct {
	Shipments *ShipmentList `xml:"envios"`
}

// ShipmentList wraps the repeated item element.
type ShipmentList struct {
	Items []Shipment `xml:"item"`
}

// Items returns the located notifications; a missing container yields none.
func (r *LocateResponse) Items() []Shipment {
	if r == nil || r.Shipments == nil {
		return nil
	}
	return r.Shipments.Items
}

// Organism is an issuing administrative body.
type Organism struct {
	Name string `xml:"nombreOrganismo"`
}

// Holder identifies the holder of a notification.
type Holder struct {
	NIF  string `xml:"nifTitular"`
	Name string `xml:"nombreTitular"`
}

// Shipment is one remote notification descriptor.
type Shipment struct {
	Identifier    string    `xml:"identificador"`
	OriginCode    int       `xml:"codigoOrigen"`
	Subject       string    `xml:"concepto"`
	Description   string    `xml:"descripcion"`
	Type          string    `xml:"tipoEnvio"`
	AvailableDate string    `xml:"fechaPuestaDisposicion"`
	Issuer        *Organism `xml:"organismoEmisor"`
	IssuerRoot    *Organism `xml:"organismoEmisorRaiz"`
	Holder        *Holder   `xml:"titular"`
}

func (s *Shipment) IssuerName() string {
	if s.Issuer == nil {
		return ""
	}
	return s.Issuer.Name
}

func (s *Shipment) IssuerRootName() string {
	if s.IssuerRoot == nil {
		return ""
	}
	return s.IssuerRoot.Name
}

func (s *Shipment) HolderNIF() string {
	if s.Holder == nil {
		return ""
	}
	return s.Holder.NIF
}

func (s *Shipment) HolderName() string {
	if s.Holder == nil {
		return ""
	}
	return s.Holder.Name
}

// RequestAccessRequest is the payload of peticionAcceso.
type RequestAccessRequest struct {
	Identifier   string `xml:"identificador"`
	OriginCode   int    `xml:"codigoOrigen"`
	ReceiverNIF  string `xml:"nifReceptor"`
	ReceiverName string `xml:"nombreReceptor"`
	Event        string `xml:"evento"`
	Subject      string `xml:"concepto"`
}

// RequestAccessResponse carries the notification document and its attachment manifest.
type RequestAccessResponse struct {
	Code        string          `xml:"codigoRespuesta"`
	Description string          `xml:"descripcionRespuesta"`
	Document    *AccessDocument `xml:"documento"`
	Attachments *Manifest       `xml:"anexos"`
}

// AccessDocument is the main document of an accepted notification.
type AccessDocument struct {
	Name     string  `xml:"nombre"`
	MimeType string  `xml:"mimeType"`
	CSV      string  `xml:"csvResguardo"`
	Content  *Binary `xml:"contenido"`
}

// Manifest lists the attachments of a notification.
type Manifest struct {
	ByReference *ReferenceList `xml:"anexosReferencia"`
	ByURL       *URLList       `xml:"anexosUrl"`
}

type ReferenceList struct {
	Items []ReferenceAttachment `xml:"anexoReferencia"`
}

type URLList struct {
	Items []URLAttachment `xml:"anexoUrl"`
}

// ReferenceItems returns attachments whose content must be downloaded separately.
func (m *Manifest) ReferenceItems() []ReferenceAttachment {
	if m == nil || m.ByReference == nil {
		return nil
	}
	return m.ByReference.Items
}

// URLItems returns attachments published only as an external link.
func (m *Manifest) URLItems() []URLAttachment {
	if m == nil || m.ByURL == nil {
		return nil
	}
	return m.ByURL.Items
}

type ReferenceAttachment struct {
	Name              string `xml:"nombre"`
	MimeType          string `xml:"mimeType"`
	DocumentReference string `xml:"referenciaDocumento"`
}

type URLAttachment struct {
	Name     string `xml:"nombre"`
	MimeType string `xml:"mimeType"`
	Link     string `xml:"enlaceDocumento"`
}

// QueryAttachmentRequest is the payload of consultaAnexos.
// The service spells the identifier element with a capital I.
type QueryAttachmentRequest struct {
	ReceiverNIF string `xml:"nifReceptor"`
	Identifier  string `xml:"Identificador"`
	OriginCode  int    `xml:"codigoOrigen"`
	Reference   string `xml:"referencia"`
}

type QueryAttachmentResponse struct {
	Code        string              `xml:"codigoRespuesta"`
	Description string              `xml:"descripcionRespuesta"`
	Document    *AttachmentDocument `xml:"documento"`
}

type AttachmentDocument struct {
	Content  *Binary `xml:"contenido"`
	Metadata *string `xml:"metadatos"`
}

// QueryReceiptRequest is the payload of consultaAcusePdf.
type QueryReceiptRequest struct {
	ReceiverNIF string            `xml:"nifReceptor"`
	Identifier  string            `xml:"Identificador"`
	OriginCode  int               `xml:"codigoOrigen"`
	Receipt     ReceiptIdentifier `xml:"identificadorAcusePdf"`
}

type ReceiptIdentifier struct {
	CSV string `xml:"csvResguardo"`
}

type QueryReceiptResponse struct {
	Code        string           `xml:"codigoRespuesta"`
	Description string           `xml:"descripcionRespuesta"`
	Receipt     *ReceiptDocument `xml:"acusePdf"`
}

type ReceiptDocument struct {
	Name     string `xml:"nombreAcuse"`
	Content  Binary `xml:"contenido"`
	MimeType string `xml:"mimeType"`
}
