package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// pathID binds the {id} path parameter with OpenAPI "simple" style.
func pathID(r *http.Request) (int, error) {
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %d", id)
	}
	return id, nil
}

// queryString binds an optional form-style query parameter; absent is "".
func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// decodeBody fills the pointers in dst, keyed by field name, from a JSON
// object body or an urlencoded form. Only *string and *int targets are
// supported, which is all the intent bodies carry. Absent keys are left alone.
func decodeBody(r *http.Request, dst map[string]any) error {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		raw := make(map[string]json.RawMessage)
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return fmt.Errorf("malformed JSON body: %w", err)
		}
		for key, ptr := range dst {
			v, ok := raw[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(v, ptr); err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("malformed form body: %w", err)
	}
	for key, ptr := range dst {
		if !r.PostForm.Has(key) {
			continue
		}
		v := r.PostForm.Get(key)
		switch p := ptr.(type) {
		case *string:
			*p = v
		case *int:
			if strings.TrimSpace(v) == "" {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("field %s: not a number", key)
			}
			*p = n
		}
	}
	return nil
}

// writeBodyError answers a body that could not be decoded: 413 when the
// size limit tripped, 400 otherwise.
func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, requestBody("request body too large"))
		return
	}
	writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
}
