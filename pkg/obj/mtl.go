package obj

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// parseMTL reads an MTL file and records each material's diffuse map path.
// Only map_Kd matters to the viewer; other statements are skipped.
func parseMTL(path string, materials map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("mtl: open %s: %w", path, err)
	}
	defer f.Close()

	var current string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				current = fields[1]
				materials[current] = ""
			}
		case "map_Kd":
			if current != "" && len(fields) > 1 {
				materials[current] = fields[len(fields)-1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("mtl: read %s: %w", path, err)
	}
	return nil
}
