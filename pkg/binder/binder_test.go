package binder

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello    string `json:"hello" mod:"trim" validate:"max=9"`
	Language string `json:"language" query:"language" validate:"omitempty,language"`
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func newQueryContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.GET, "/?"+query, nil)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json bodies", func(tt *testing.T) {
		c := newContext(`{"hello":"world"}`, echo.MIMEApplicationXML)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(`{"hello":"world","foo":"bar"}`, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(`{"hello":123}`, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" must be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(`{"hello":" world "}`, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(`{"hello":"0123456789"}`, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" must have a length of at most 9`)
	})

	t.Run("binds query params on GET", func(tt *testing.T) {
		c := newQueryContext("language=fr")
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "fr", p.Language)
	})

	t.Run("rejects malformed language codes", func(tt *testing.T) {
		c := newQueryContext("language=French")
		p := params{}
		err = b.Bind(&p, c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"language" must be a two-letter language code`)
	})
}

func TestLanguageValidator(t *testing.T) {
	t.Parallel()

	valid := []string{"", "en", "fr", "pt-br", "zh-cn"}
	invalid := []string{"EN", "eng", "pt_BR", "e", "en-"}

	for _, v := range valid {
		assert.True(t, languageRE.MatchString(v) || v == "", v)
	}
	for _, v := range invalid {
		assert.False(t, languageRE.MatchString(v), v)
	}
}
