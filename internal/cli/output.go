package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// imprimir writes v in the selected format. texto renders the human form;
// json and yaml share the JSON field names of the API DTOs.
func imprimir(w io.Writer, format string, v interface{}, texto func(io.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		// Round-trip through JSON so yaml keys match the json tags.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generico interface{}
		if err := json.Unmarshal(raw, &generico); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generico); err != nil {
			return err
		}
		return enc.Close()
	default:
		return texto(w)
	}
}

func siNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}

func linea(w io.Writer, etiqueta, valor string) {
	fmt.Fprintf(w, "%-22s %s\n", etiqueta+":", valor)
}
