package validate

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasnoah/triviabuild/internal/console"
)

const (
	PropertiesFile = "gradle.properties"

	MinecraftVersionKey = "minecraft_version"
	// MinecraftVersion is the game version the mod targets.
	MinecraftVersion = "1.21.1"
)

// CheckGradleProperties requires gradle.properties to pin MinecraftVersion.
func CheckGradleProperties(root string, out *console.Printer) Result {
	var res Result
	out.Info("Validating Gradle configuration...")

	path := filepath.Join(root, PropertiesFile)
	if _, err := os.Stat(path); err != nil {
		out.Error("%s not found", PropertiesFile)
		res.Errorf("Missing %s", PropertiesFile)
		return res
	}

	got, ok := readProperty(path, MinecraftVersionKey)
	if !ok || got != MinecraftVersion {
		out.Error("Minecraft version mismatch (expected %s, got %q)", MinecraftVersion, got)
		res.Errorf("Wrong Minecraft version")
		return res
	}
	out.Success("Minecraft version: %s", MinecraftVersion)
	return res
}

// readProperty reads the value of key from a Java properties file.
// Supports "key=value" and "key: value"; comment lines start with # or !.
func readProperty(path, key string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		idx := strings.IndexAny(line, "=:")
		if idx < 0 {
			continue
		}
		if strings.TrimSpace(line[:idx]) == key {
			return strings.TrimSpace(line[idx+1:]), true
		}
	}
	return "", false
}
