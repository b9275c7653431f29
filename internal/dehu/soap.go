package dehu

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	soapEnvNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	wsseNamespace    = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	passwordText     = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordText"

	// LemaNamespace qualifies the operation elements of the LEMA service.
	LemaNamespace = "https://administracionelectronica.gob.es/notifica/ws/lema"
)

var errNoBody = errors.New("soap envelope has no body")

type envelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	SoapNS  string   `xml:"xmlns:soapenv,attr"`
	Header  header   `xml:"soapenv:Header"`
	Body    body     `xml:"soapenv:Body"`
}

type header struct {
	Security security `xml:"wsse:Security"`
}

type security struct {
	WsseNS         string        `xml:"xmlns:wsse,attr"`
	MustUnderstand string        `xml:"soapenv:mustUnderstand,attr"`
	Token          usernameToken `xml:"wsse:UsernameToken"`
}

type usernameToken struct {
	Username string   `xml:"wsse:Username"`
	Password password `xml:"wsse:Password"`
}

type password struct {
	Type  string `xml:"Type,attr"`
	Value string `xml:",chardata"`
}

type body struct {
	Content []byte `xml:",innerxml"`
}

// fault covers SOAP 1.1 and the text parts of SOAP 1.2 faults.
type fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
	Code12 struct {
		Value string `xml:"Value"`
	} `xml:"Code"`
	Reason struct {
		Text string `xml:"Text"`
	} `xml:"Reason"`
}

// buildEnvelope renders payload as the operation element inside a SOAP envelope carrying
// a UsernameToken with the api key and an empty password.
func buildEnvelope(operation, apiKey string, payload any) ([]byte, error) {
	var op bytes.Buffer
	enc := xml.NewEncoder(&op)
	start := xml.StartElement{Name: xml.Name{Space: LemaNamespace, Local: operation}}
	if err := enc.EncodeElement(payload, start); err != nil {
		return nil, fmt.Errorf("encode %s: %w", operation, err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", operation, err)
	}

	env := envelope{
		SoapNS: soapEnvNamespace,
		Header: header{Security: security{
			WsseNS:         wsseNamespace,
			MustUnderstand: "1",
			Token: usernameToken{
				Username: apiKey,
				Password: password{Type: passwordText},
			},
		}},
		Body: body{Content: op.Bytes()},
	}

	out, err := xml.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// newDecoder returns a permissive decoder: unknown elements are skipped, non UTF-8 charsets are
// converted and there is no size limit on the document.
func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// decodeEnvelope finds the first element inside the SOAP body and decodes it into out,
// whatever its name. A fault is returned as *FaultError.
func decodeEnvelope(r io.Reader, operation string, out any) error {
	dec := newDecoder(r)
	inBody := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return errNoBody
		}
		if err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !inBody {
			inBody = start.Name.Local == "Body"
			continue
		}
		if start.Name.Local == "Fault" {
			var f fault
			if err := dec.DecodeElement(&f, &start); err != nil {
				return fmt.Errorf("decode %s fault: %w", operation, err)
			}
			return f.toError(operation)
		}
		if err := dec.DecodeElement(out, &start); err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
		return nil
	}
}

func (f *fault) toError(operation string) *FaultError {
	code := f.Code
	if code == "" {
		code = f.Code12.Value
	}
	msg := f.String
	if msg == "" {
		msg = f.Reason.Text
	}
	return &FaultError{Operation: operation, Code: strings.TrimSpace(code), Message: strings.TrimSpace(msg)}
}

// soapAddress reads the service location from a descriptor. It only looks at the
// soap:address element; everything else in the document is ignored.
func soapAddress(r io.Reader) (string, error) {
	dec := newDecoder(r)
	root := true
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("parse service descriptor: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if root {
			if start.Name.Local != "definitions" && start.Name.Local != "description" {
				return "", fmt.Errorf("parse service descriptor: unexpected root element %q", start.Name.Local)
			}
			root = false
			continue
		}
		if start.Name.Local != "address" {
			continue
		}
		for _, a := range start.Attr {
			if a.Name.Local == "location" && a.Value != "" {
				return a.Value, nil
			}
		}
	}
}
