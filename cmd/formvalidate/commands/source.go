package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formvalidate/pkg/schema/openapischema"
)

// loadOpenAPI builds the schema named by the config: the request body of an
// operation when one is set, otherwise a standalone schema document.
func (a *app) loadOpenAPI(ctx context.Context) (*openapischema.Schema[map[string]any], error) {
	data, err := os.ReadFile(a.cfg.Schema)
	if err != nil {
		return nil, errors.Wrap(err, "read schema")
	}
	if a.cfg.Operation != "" {
		return openapischema.FromOperation[map[string]any](ctx, data, a.cfg.Operation)
	}
	switch strings.ToLower(filepath.Ext(a.cfg.Schema)) {
	case ".yaml", ".yml":
		return openapischema.FromYAML[map[string]any](data)
	case ".json":
		return openapischema.FromJSON[map[string]any](data)
	}
	return openapischema.FromDocument[map[string]any](data)
}

// readPayload decodes a JSON or YAML payload from path, or from in when path
// is "-".
func readPayload(path string, in io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read payload")
	}

	var payload any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &payload)
	default:
		err = gojson.Unmarshal(data, &payload)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode payload %s", path)
	}
	return payload, nil
}
