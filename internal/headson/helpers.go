package headson

import (
	"errors"
	"strings"

	"github.com/headson/headson/internal/arena"
	"github.com/headson/headson/internal/debug"
	"github.com/headson/headson/internal/ingest"
	"github.com/headson/headson/internal/render"
)

var errNoInputs = errors.New("no inputs supplied")

// arenaOrErr pairs a built arena with the error that may have produced it
// instead, letting Summarize build either branch with one shared shape.
type arenaOrErr struct {
	arena arena.Arena
	err   error
}

// formatName renders the template choice in cfg for the
// FilesetFormatForbidden error message.
func formatName(cfg render.Config) string {
	switch cfg.Template {
	case render.Json:
		return "json"
	case render.Yaml:
		return "yaml"
	case render.Text:
		return "text"
	case render.Code:
		return "code"
	case render.Js:
		return "js"
	default:
		return "pseudo"
	}
}

// fingerprintAll hashes every input's concatenated bytes in order, giving
// the debug trace one stable correlation key per run regardless of how many
// files were ingested.
func fingerprintAll(inputs []ingest.Input) string {
	var buf strings.Builder
	for _, in := range inputs {
		buf.WriteString(in.Name)
		buf.WriteByte(0)
		buf.Write(in.Bytes)
		buf.WriteByte(0)
	}
	return debug.Fingerprint([]byte(buf.String()))
}

// inputKindLabel names the ingest path this run took, for the debug trace's
// input_kind field.
func inputKindLabel(isFileset bool, inputs []ingest.Input) string {
	if isFileset {
		return "fileset"
	}
	switch inputs[0].Kind {
	case ingest.KindJSON:
		return "json"
	case ingest.KindYAML:
		return "yaml"
	default:
		return "text"
	}
}
