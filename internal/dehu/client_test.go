package dehu

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dehusync/internal/model"
)

// redirectTransport sends every request to the test server, keeping the path and query,
// and records the headers the client attached.
type redirectTransport struct {
	target *url.URL
	base   http.RoundTripper

	mu      sync.Mutex
	headers []http.Header
}

func (t *redirectTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.headers = append(t.headers, r.Header.Clone())
	t.mu.Unlock()

	out := r.Clone(r.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	out.Host = t.target.Host
	return t.base.RoundTrip(out)
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func descriptor(location string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/" xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/">
  <wsdl:service name="LemaService">
    <wsdl:port name="LemaPort" binding="tns:LemaBinding">
      <soap:address location="` + location + `"/>
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>`
}

func soapResponse(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<S:Envelope xmlns:S="http://schemas.xmlsoap.org/soap/envelope/">
  <S:Header/>
  <S:Body>` + inner + `</S:Body>
</S:Envelope>`
}

type soapServer struct {
	t        *testing.T
	server   *httptest.Server
	replies  map[string]string
	status   int
	bodies   []string
	actions  []string
	noAddr   bool
	wsdlCode int
}

func newSOAPServer(t *testing.T) *soapServer {
	t.Helper()
	s := &soapServer{t: t, replies: map[string]string{}, status: http.StatusOK, wsdlCode: http.StatusOK}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

func (s *soapServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if s.wsdlCode != http.StatusOK {
			w.WriteHeader(s.wsdlCode)
			return
		}
		w.Header().Set("Content-Type", "text/xml")
		if s.noAddr {
			io.WriteString(w, `<definitions xmlns="http://schemas.xmlsoap.org/wsdl/"><service name="x"/></definitions>`)
			return
		}
		io.WriteString(w, descriptor(s.server.URL+"/ws/v2/lema/soap"))
		return
	}

	b, _ := io.ReadAll(r.Body)
	s.bodies = append(s.bodies, string(b))
	action := strings.Trim(r.Header.Get("SOAPAction"), `"`)
	s.actions = append(s.actions, action)

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(s.status)
	io.WriteString(w, s.replies[action])
}

func (s *soapServer) factory(t *testing.T) (*HTTPFactory, *redirectTransport) {
	t.Helper()
	target, err := url.Parse(s.server.URL)
	require.NoError(t, err)
	rt := &redirectTransport{target: target, base: &http.Transport{}}
	return NewFactory(&http.Client{Transport: rt}, zap.NewNop()), rt
}

func testConfig() *model.Configuration {
	return &model.Configuration{
		Name:         "main",
		Environment:  model.EnvironmentSandbox,
		APIKey:       "api-key-123",
		CompanyName:  "ACME SL",
		CompanyTaxID: "B12345678",
		Active:       true,
	}
}

func TestFactory_New_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing api key", func(t *testing.T) {
		f := NewFactory(&http.Client{Transport: failingTransport{}}, nil)
		cfg := testConfig()
		cfg.APIKey = ""

		svc, err := f.New(ctx, cfg)

		assert.Nil(t, svc)
		var cce *ClientCreationError
		require.ErrorAs(t, err, &cce)
		assert.ErrorIs(t, err, ErrAPIKeyRequired)
	})

	t.Run("nil configuration", func(t *testing.T) {
		f := NewFactory(&http.Client{Transport: failingTransport{}}, nil)

		_, err := f.New(ctx, nil)

		assert.ErrorIs(t, err, ErrEndpointRequired)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		f := NewFactory(&http.Client{Transport: failingTransport{}}, nil)

		_, err := f.New(ctx, testConfig())

		var cce *ClientCreationError
		require.ErrorAs(t, err, &cce)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("descriptor not found", func(t *testing.T) {
		s := newSOAPServer(t)
		s.wsdlCode = http.StatusNotFound
		f, _ := s.factory(t)

		_, err := f.New(ctx, testConfig())

		var cce *ClientCreationError
		require.ErrorAs(t, err, &cce)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("malformed descriptor", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "<html><body>maintenance</body></html>")
		}))
		defer srv.Close()
		target, _ := url.Parse(srv.URL)
		f := NewFactory(&http.Client{Transport: &redirectTransport{target: target, base: &http.Transport{}}}, nil)

		_, err := f.New(ctx, testConfig())

		var cce *ClientCreationError
		require.ErrorAs(t, err, &cce)
		assert.Contains(t, err.Error(), "unexpected root element")
	})
}

func TestFactory_New_AddressFallback(t *testing.T) {
	s := newSOAPServer(t)
	s.noAddr = true
	f, _ := s.factory(t)

	svc, err := f.New(context.Background(), testConfig())
	require.NoError(t, err)

	c := svc.(*client)
	assert.Equal(t, "https://se-gd-dehuws.redsara.es/ws/v2/lema", c.address)
}

func TestClient_Locate(t *testing.T) {
	s := newSOAPServer(t)
	s.replies[OpLocate] = soapResponse(`
<ns2:localizaResponse xmlns:ns2="` + LemaNamespace + `">
  <envios>
    <item>
      <identificador>EXP123</identificador>
      <codigoOrigen>7</codigoOrigen>
      <concepto>Requerimiento</concepto>
      <descripcion>Requerimiento de documentacion</descripcion>
      <tipoEnvio>2</tipoEnvio>
      <fechaPuestaDisposicion>2024-03-01T10:00:00</fechaPuestaDisposicion>
      <organismoEmisor><nombreOrganismo>AEAT</nombreOrganismo></organismoEmisor>
      <organismoEmisorRaiz><nombreOrganismo>Ministerio de Hacienda</nombreOrganismo></organismoEmisorRaiz>
      <titular><nifTitular>B12345678</nifTitular><nombreTitular>ACME SL</nombreTitular></titular>
      <campoDesconocido>ignored</campoDesconocido>
    </item>
    <item>
      <identificador>EXP124</identificador>
      <codigoOrigen>3</codigoOrigen>
    </item>
  </envios>
</ns2:localizaResponse>`)
	f, rt := s.factory(t)

	svc, err := f.New(context.Background(), testConfig())
	require.NoError(t, err)

	resp, err := svc.Locate(context.Background(), LocateRequest{
		HolderNIF: "B12345678",
		DateFrom:  "2024-02-01T00:00:00",
		DateTo:    "2024-03-02T00:00:00",
	})
	require.NoError(t, err)

	items := resp.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "EXP123", items[0].Identifier)
	assert.Equal(t, 7, items[0].OriginCode)
	assert.Equal(t, "AEAT", items[0].IssuerName())
	assert.Equal(t, "Ministerio de Hacienda", items[0].IssuerRootName())
	assert.Equal(t, "ACME SL", items[0].HolderName())
	assert.Equal(t, "2024-03-01T10:00:00", items[0].AvailableDate)
	assert.Equal(t, "", items[1].IssuerName())
	assert.Equal(t, "", items[1].HolderNIF())

	require.Len(t, s.bodies, 1)
	body := s.bodies[0]
	assert.Contains(t, body, `<wsse:Username>api-key-123</wsse:Username>`)
	assert.Contains(t, body, `<localiza xmlns="`+LemaNamespace+`">`)
	assert.Contains(t, body, `<nifTitular>B12345678</nifTitular>`)
	assert.Equal(t, []string{OpLocate}, s.actions)

	// descriptor GET and the SOAP POST both carry the fixed header pair
	require.Len(t, rt.headers, 2)
	for _, h := range rt.headers {
		assert.Equal(t, "100-continue", h.Get("Expect"))
		assert.Equal(t, "0", h.Get("Content-Length"))
	}
}

func TestClient_Locate_EmptyShapes(t *testing.T) {
	tests := []struct {
		name  string
		inner string
	}{
		{"no envios", `<localizaResponse/>`},
		{"envios without items", `<localizaResponse><envios/></localizaResponse>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSOAPServer(t)
			s.replies[OpLocate] = soapResponse(tt.inner)
			f, _ := s.factory(t)
			svc, err := f.New(context.Background(), testConfig())
			require.NoError(t, err)

			resp, err := svc.Locate(context.Background(), LocateRequest{})

			require.NoError(t, err)
			assert.Empty(t, resp.Items())
		})
	}
}

func TestClient_RequestAccess(t *testing.T) {
	s := newSOAPServer(t)
	s.replies[OpRequestAccess] = soapResponse(`
<peticionAccesoResponse>
  <codigoRespuesta>200</codigoRespuesta>
  <descripcionRespuesta>OK</descripcionRespuesta>
  <documento>
    <nombre>notificacion.pdf</nombre>
    <mimeType>application/pdf</mimeType>
    <csvResguardo>CSV-001</csvResguardo>
    <contenido>aGVsbG8g
d29ybGQ=</contenido>
  </documento>
  <anexos>
    <anexosReferencia>
      <anexoReferencia><nombre>a1.pdf</nombre><mimeType>application/pdf</mimeType><referenciaDocumento>REF1</referenciaDocumento></anexoReferencia>
    </anexosReferencia>
  </anexos>
</peticionAccesoResponse>`)
	f, _ := s.factory(t)
	svc, err := f.New(context.Background(), testConfig())
	require.NoError(t, err)

	resp, err := svc.RequestAccess(context.Background(), RequestAccessRequest{
		Identifier: "EXP123", OriginCode: 7, Event: EventAccepted, Subject: "Requerimiento",
	})
	require.NoError(t, err)

	assert.Equal(t, CodeOK, resp.Code)
	require.NotNil(t, resp.Document)
	assert.Equal(t, "CSV-001", resp.Document.CSV)
	require.NotNil(t, resp.Document.Content)
	assert.Equal(t, "hello world", string(*resp.Document.Content))
	require.NotNil(t, resp.Attachments)
	assert.Len(t, resp.Attachments.ReferenceItems(), 1)
	assert.Empty(t, resp.Attachments.URLItems())
	assert.Contains(t, s.bodies[0], `<codigoOrigen>7</codigoOrigen>`)
	assert.Contains(t, s.bodies[0], `<evento>1</evento>`)
}

func TestClient_RequestAccess_OptionalFieldsAbsent(t *testing.T) {
	s := newSOAPServer(t)
	s.replies[OpRequestAccess] = soapResponse(`
<peticionAccesoResponse>
  <codigoRespuesta>200</codigoRespuesta>
  <documento><nombre>n.pdf</nombre><mimeType>application/pdf</mimeType><csvResguardo>CSV</csvResguardo></documento>
</peticionAccesoResponse>`)
	f, _ := s.factory(t)
	svc, err := f.New(context.Background(), testConfig())
	require.NoError(t, err)

	resp, err := svc.RequestAccess(context.Background(), RequestAccessRequest{})

	require.NoError(t, err)
	assert.Nil(t, resp.Document.Content)
	assert.Nil(t, resp.Attachments)
	assert.Empty(t, resp.Attachments.ReferenceItems())
}

func TestClient_QueryAttachmentAndReceipt(t *testing.T) {
	s := newSOAPServer(t)
	s.replies[OpQueryAttachment] = soapResponse(`
<consultaAnexosResponse>
  <codigoRespuesta>200</codigoRespuesta>
  <documento><contenido>YQ==</contenido><metadatos>hash=abc</metadatos></documento>
</consultaAnexosResponse>`)
	s.replies[OpQueryReceiptPDF] = soapResponse(`
<consultaAcusePdfResponse>
  <codigoRespuesta>200</codigoRespuesta>
  <acusePdf><nombreAcuse>acuse.pdf</nombreAcuse><contenido>JVBERi0=</contenido><mimeType>application/pdf</mimeType></acusePdf>
</consultaAcusePdfResponse>`)
	f, _ := s.factory(t)
	svc, err := f.New(context.Background(), testConfig())
	require.NoError(t, err)
	ctx := context.Background()

	att, err := svc.QueryAttachment(ctx, QueryAttachmentRequest{ReceiverNIF: "B1", Identifier: "EXP123", OriginCode: 7, Reference: "REF1"})
	require.NoError(t, err)
	require.NotNil(t, att.Document.Content)
	assert.Equal(t, "YQ==", att.Document.Content.Base64())
	require.NotNil(t, att.Document.Metadata)
	assert.Equal(t, "hash=abc", *att.Document.Metadata)
	assert.Contains(t, s.bodies[0], `<Identificador>EXP123</Identificador>`)
	assert.Contains(t, s.bodies[0], `<referencia>REF1</referencia>`)

	rec, err := svc.QueryReceiptPDF(ctx, QueryReceiptRequest{Identifier: "EXP123", OriginCode: 7, Receipt: ReceiptIdentifier{CSV: "CSV-001"}})
	require.NoError(t, err)
	require.NotNil(t, rec.Receipt)
	assert.Equal(t, "acuse.pdf", rec.Receipt.Name)
	assert.Equal(t, "%PDF-", string(rec.Receipt.Content))
	assert.Contains(t, s.bodies[1], `<identificadorAcusePdf><csvResguardo>CSV-001</csvResguardo></identificadorAcusePdf>`)
}

func TestClient_Fault(t *testing.T) {
	s := newSOAPServer(t)
	s.status = http.StatusInternalServerError
	s.replies[OpLocate] = soapResponse(`
<S:Fault>
  <faultcode>S:Server</faultcode>
  <faultstring>Usuario no autorizado</faultstring>
</S:Fault>`)
	f, _ := s.factory(t)
	svc, err := f.New(context.Background(), testConfig())
	require.NoError(t, err)

	_, err = svc.Locate(context.Background(), LocateRequest{})

	var fe *FaultError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "S:Server", fe.Code)
	assert.Equal(t, "Usuario no autorizado", fe.Message)
}

func TestClient_HTTPErrorWithoutEnvelope(t *testing.T) {
	s := newSOAPServer(t)
	s.status = http.StatusBadGateway
	s.replies[OpLocate] = "bad gateway"
	f, _ := s.factory(t)
	svc, err := f.New(context.Background(), testConfig())
	require.NoError(t, err)

	_, err = svc.Locate(context.Background(), LocateRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "localiza returned status 502")
}

func TestClient_Latin1Response(t *testing.T) {
	s := newSOAPServer(t)
	// "Notificación" with ó as the ISO-8859-1 byte 0xF3
	s.replies[OpLocate] = "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<S:Envelope xmlns:S=\"http://schemas.xmlsoap.org/soap/envelope/\"><S:Body><r><envios><item>" +
		"<identificador>E1</identificador><codigoOrigen>1</codigoOrigen><concepto>Notificaci\xf3n</concepto>" +
		"</item></envios></r></S:Body></S:Envelope>"
	f, _ := s.factory(t)
	svc, err := f.New(context.Background(), testConfig())
	require.NoError(t, err)

	resp, err := svc.Locate(context.Background(), LocateRequest{})

	require.NoError(t, err)
	require.Len(t, resp.Items(), 1)
	assert.Equal(t, "Notificación", resp.Items()[0].Subject)
}

func TestBuildEnvelope(t *testing.T) {
	out, err := buildEnvelope(OpQueryReceiptPDF, "k", QueryReceiptRequest{
		ReceiverNIF: "B1",
		Identifier:  "EXP1",
		OriginCode:  2,
		Receipt:     ReceiptIdentifier{CSV: "C"},
	})
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, `<soapenv:Envelope xmlns:soapenv="`+soapEnvNamespace+`">`)
	assert.Contains(t, s, `soapenv:mustUnderstand="1"`)
	assert.Contains(t, s, `<wsse:Password Type="`+passwordText+`"></wsse:Password>`)
	assert.Contains(t, s, `<consultaAcusePdf xmlns="`+LemaNamespace+`"><nifReceptor>B1</nifReceptor>`)
}
