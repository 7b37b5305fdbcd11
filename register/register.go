// Package register writes MCP client configuration entries so agent clients
// can launch the server without manual config editing.
package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mzalewski/filetag/storage"
)

type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Options controls where and how the server entry is written.
type Options struct {
	// Scope selects the client config: "project" writes <dir>/.mcp.json,
	// "user" writes ~/.claude.json.
	Scope string

	// Directory is the project-scope target directory. Defaults to ".".
	Directory string

	// ServerName is the entry key, e.g. "filetag".
	ServerName string

	// ServerArgs are forwarded to the binary when the client launches it.
	ServerArgs []string
}

// Register adds or updates the server entry in the client config for the
// requested scope. It returns the path of the config file written.
func Register(opts Options) (string, error) {
	if opts.Scope != "project" && opts.Scope != "user" {
		return "", fmt.Errorf("unknown scope %q (must be \"project\" or \"user\")", opts.Scope)
	}

	binaryPath, err := detectBinaryPath()
	if err != nil {
		return "", err
	}

	configPath, err := resolveConfigPath(opts.Scope, opts.Directory)
	if err != nil {
		return "", err
	}

	entry := buildEntry(binaryPath, opts.ServerArgs)
	if err := writeConfig(configPath, opts.ServerName, entry); err != nil {
		return "", err
	}
	return configPath, nil
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope string, directory string) (string, error) {
	if scope == "project" {
		if directory == "" {
			directory = "."
		}
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

func buildEntry(binaryPath string, serverArgs []string) serverEntry {
	if runtime.GOOS == "windows" {
		args := []string{"/C", binaryPath}
		args = append(args, serverArgs...)
		return serverEntry{
			Command: "cmd",
			Args:    args,
		}
	}
	return serverEntry{
		Command: binaryPath,
		Args:    serverArgs,
	}
}

// writeConfig merges the entry into the existing client config, preserving
// unrelated servers, and replaces the file atomically.
func writeConfig(configPath string, serverName string, entry serverEntry) error {
	config := map[string]any{
		"mcpServers": map[string]any{},
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	}

	servers, ok := config["mcpServers"]
	if !ok {
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]any)
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	return storage.AtomicWrite(configPath, output)
}
