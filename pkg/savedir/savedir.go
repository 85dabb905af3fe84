// Package savedir locates the saves directory and validates save file names.
//
// Save files live in "<base>/saves", where base defaults to the platform
// configuration directory. Names are bare file names with a ".db" extension;
// collisions are resolved by appending "_copyN" before the extension.
//
// Example usage:
//
//	dir, err := savedir.ResolveSavesDir(savedir.DefaultBase())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name, err := savedir.NormalizeName("bracket")   // "bracket.db"
//	name = savedir.Dedupe(existing, name)            // "bracket_copy1.db" if taken
package savedir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xmhha/gala/pkg/saveerr"
)

// Extension is the save file extension, compared case-insensitively.
const Extension = ".db"

// savesSubdir is the directory under base holding save files.
const savesSubdir = "saves"

// appName is the per-user configuration directory name.
const appName = "gala"

// DefaultBase returns the default base directory: <user config dir>/gala.
//
// Falls back to ./gala when the platform config directory is unknown.
func DefaultBase() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return appName
	}
	return filepath.Join(dir, appName)
}

// ResolveSavesDir returns <base>/saves, creating it if absent.
//
// Parameters:
//   - base: Base directory (usually DefaultBase or the configured base_dir)
//
// Returns:
//   - Absolute path of the saves directory
//   - IoFailure if the directory cannot be created or is not a directory
//
// Calling it repeatedly is harmless.
func ResolveSavesDir(base string) (string, error) {
	if strings.TrimSpace(base) == "" {
		base = DefaultBase()
	}

	dir := filepath.Join(expandHome(base), savesSubdir)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", saveerr.IO("failed to create saves directory", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", saveerr.IO("failed to stat saves directory", err)
	}
	if !info.IsDir() {
		return "", saveerr.IO("saves path is not a directory",
			fmt.Errorf("%s", dir))
	}

	return dir, nil
}

// NormalizeName validates a requested save name and ensures the .db suffix.
//
// Returns InvalidName if raw is blank or contains a path separator ('/' or
// '\'). Otherwise returns raw with ".db" appended unless it already ends in
// ".db" in any letter case.
func NormalizeName(raw string) (string, error) {
	if strings.ContainsAny(raw, `/\`) {
		return "", saveerr.InvalidName("file_name must be a bare file name (no path separators)")
	}
	if strings.TrimSpace(raw) == "" {
		return "", saveerr.InvalidName("file_name must not be empty")
	}

	if HasExtension(raw) {
		return raw, nil
	}
	return raw + Extension, nil
}

// HasExtension reports whether name ends in ".db", ignoring case.
func HasExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Extension)
}

// Dedupe returns a name not present in existing.
//
// If candidate is free it is returned unchanged. Otherwise candidate is split
// at its last '.' and base_copy1.ext, base_copy2.ext, ... are probed in order;
// the first free name wins. Only membership in existing matters, so the
// result does not depend on the order of existing.
func Dedupe(existing []string, candidate string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}

	if _, ok := taken[candidate]; !ok {
		return candidate
	}

	base, ext := candidate, ""
	if i := strings.LastIndex(candidate, "."); i >= 0 {
		base, ext = candidate[:i], candidate[i+1:]
	}

	for i := 1; ; i++ {
		next := fmt.Sprintf("%s_copy%d", base, i)
		if ext != "" {
			next = fmt.Sprintf("%s.%s", next, ext)
		}
		if _, ok := taken[next]; !ok {
			return next
		}
	}
}

// Path joins a bare save name onto the saves directory.
func Path(dir, name string) string {
	return filepath.Join(dir, name)
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
