package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"

	"github.com/labstack/echo/v4"
	"github.com/onsi/gomega"
)

type RequestModifier func(r *http.Request)

type RequestModifiers []RequestModifier

func (r *RequestModifiers) Add(mods ...RequestModifier) {
	*r = append(*r, mods...)
}

func WithHeader(key string, value string) RequestModifier {
	return func(request *http.Request) {
		request.Header.Set(key, value)
	}
}

// FormPart is one part of a multipart body. A part with IsFile set is sent
// with a filename, even an empty one, the way a browser sends a file input.
type FormPart struct {
	Field    string
	FileName string
	IsFile   bool
	Content  []byte
}

func FilePart(field string, fileName string, content []byte) FormPart {
	return FormPart{Field: field, FileName: fileName, IsFile: true, Content: content}
}

func ValuePart(field string, value string) FormPart {
	return FormPart{Field: field, Content: []byte(value)}
}

type RequestFactory struct {
	Method  string
	Target  string
	JSONObj interface{}
	// Multipart is sent as multipart/form-data when JSONObj is nil.
	Multipart []FormPart
	Mods      RequestModifiers
}

func (r RequestFactory) make(reqMaker func(string, string, io.Reader) *http.Request) *http.Request {
	var body io.Reader
	contentType := ""

	switch {
	case r.JSONObj != nil:
		buf := &bytes.Buffer{}
		err := json.NewEncoder(buf).Encode(r.JSONObj)
		gomega.ExpectWithOffset(2, err).NotTo(gomega.HaveOccurred())

		body = buf
		contentType = echo.MIMEApplicationJSON

	case r.Multipart != nil:
		buf := &bytes.Buffer{}
		contentType = writeMultipart(buf, r.Multipart)
		body = buf
	}

	request := reqMaker(r.Method, r.Target, body)

	if contentType != "" {
		request.Header.Set(echo.HeaderContentType, contentType)
	}

	for _, mod := range r.Mods {
		mod(request)
	}

	return request
}

func writeMultipart(buf *bytes.Buffer, parts []FormPart) string {
	writer := multipart.NewWriter(buf)

	for _, part := range parts {
		header := textproto.MIMEHeader{}
		if part.IsFile {
			header.Set("Content-Disposition",
				`form-data; name="`+part.Field+`"; filename="`+part.FileName+`"`)
			header.Set("Content-Type", "application/octet-stream")
		} else {
			header.Set("Content-Disposition", `form-data; name="`+part.Field+`"`)
		}

		partWriter, err := writer.CreatePart(header)
		gomega.ExpectWithOffset(3, err).NotTo(gomega.HaveOccurred())

		_, err = partWriter.Write(part.Content)
		gomega.ExpectWithOffset(3, err).NotTo(gomega.HaveOccurred())
	}

	gomega.ExpectWithOffset(3, writer.Close()).To(gomega.Succeed())
	return writer.FormDataContentType()
}

func (r RequestFactory) MakeFake() *http.Request {
	return r.make(httptest.NewRequest)
}

func (r RequestFactory) Do() (*http.Response, error) {
	makeRealRequest := func(method string, target string, body io.Reader) *http.Request {
		return ExpectSuccess(http.NewRequest(method, target, body))
	}

	req := r.make(makeRealRequest)
	return http.DefaultClient.Do(req)
}
