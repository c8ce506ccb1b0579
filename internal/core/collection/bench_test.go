package collection

import (
	"fmt"
	"strings"
	"testing"
)

// generateCollectionYAML creates a YAML string with the given number of
// folders, each containing routesPerFolder routes.
func generateCollectionYAML(folders, routesPerFolder int) string {
	var sb strings.Builder
	sb.WriteString("name: Large API\nversion: \"1\"\nvariables:\n  base_url: \"https://api.example.com\"\nitems:\n")
	for f := 0; f < folders; f++ {
		fmt.Fprintf(&sb, "  - folder:\n      name: Folder_%d\n      items:\n", f)
		for r := 0; r < routesPerFolder; r++ {
			fmt.Fprintf(&sb, "        - route:\n")
			fmt.Fprintf(&sb, "            name: Route_%d_%d\n", f, r)
			fmt.Fprintf(&sb, "            method: GET\n")
			fmt.Fprintf(&sb, "            url: \"{{base_url}}/folder_%d/resource_%d\"\n", f, r)
			fmt.Fprintf(&sb, "            params:\n")
			fmt.Fprintf(&sb, "              - { key: page, value: \"1\", enabled: true }\n")
			fmt.Fprintf(&sb, "            response:\n              body: { type: json, content: '{\"ok\":true}' }\n")
		}
	}
	return sb.String()
}

func BenchmarkLoadFromBytes(b *testing.B) {
	for _, size := range []struct{ folders, routes int }{{1, 1}, {5, 10}, {25, 20}} {
		data := []byte(generateCollectionYAML(size.folders, size.routes))
		b.Run(fmt.Sprintf("%d_routes", size.folders*size.routes), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := LoadFromBytes(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRoutes(b *testing.B) {
	col, err := LoadFromBytes([]byte(generateCollectionYAML(10, 20)))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = col.Routes()
	}
}
