package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/lvillar/pagelayout/model"
)

// RegisterDefaultResources adds the built-in layout resources to the server.
// Resources use the layout:// scheme.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "layout://templates/default",
		Name:        "Default Invoice Layout",
		Description: "Header, table and footer regions with invoice fields. Use as the layout argument of any tool.",
		MIMEType:    "application/json",
		Handler:     templateHandler("default"),
	})

	s.AddResource(Resource{
		URI:         "layout://templates/single-table",
		Name:        "Single Table Layout",
		Description: "One table region covering the whole page",
		MIMEType:    "application/json",
		Handler:     templateHandler("single-table"),
	})

	s.AddResource(Resource{
		URI:         "layout://kinds",
		Name:        "Item Kinds",
		Description: "Item kinds a free-layout region can hold, with default sizes and whether they bind to data fields",
		MIMEType:    "application/json",
		Handler:     handleKindsResource,
	})
}

func templateHandler(name string) ResourceHandler {
	return func(uri string) ([]ResourceContent, error) {
		doc, ok := model.Template(name)
		if !ok {
			return nil, fmt.Errorf("unknown template %q", name)
		}
		data, err := model.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return []ResourceContent{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}}, nil
	}
}

func handleKindsResource(uri string) ([]ResourceContent, error) {
	jsonBytes, err := json.MarshalIndent(model.ItemKinds(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(jsonBytes),
	}}, nil
}
