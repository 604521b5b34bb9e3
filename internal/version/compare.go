package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckManifestCompatibility checks whether a manifest written by writerVersion can be
// read by a build at readerVersion.
//
// Rules:
//   - "main" (development build) or an empty version on either side skips the check
//   - Major versions must match exactly
//   - The writer minor version must not be newer than the reader's
//
// Examples:
//   - Reader 1.2.0, Writer 1.2.7 -> OK (patch differs)
//   - Reader 1.3.0, Writer 1.2.0 -> OK (older manifest)
//   - Reader 1.2.0, Writer 1.3.0 -> ERROR (manifest is newer)
//   - Reader 2.0.0, Writer 1.2.0 -> ERROR (major differs)
func CheckManifestCompatibility(readerVersion, writerVersion string) error {
	readerVersion = strings.TrimPrefix(readerVersion, "v")
	writerVersion = strings.TrimPrefix(writerVersion, "v")

	if readerVersion == "main" || writerVersion == "main" || readerVersion == "" || writerVersion == "" {
		return nil
	}

	reader, err := semver.NewVersion(readerVersion)
	if err != nil {
		return fmt.Errorf("invalid reader version '%s': %w", readerVersion, err)
	}

	writer, err := semver.NewVersion(writerVersion)
	if err != nil {
		return fmt.Errorf("invalid manifest version '%s': %w", writerVersion, err)
	}

	if reader.Major() != writer.Major() {
		return fmt.Errorf("major version mismatch: reader is %d.x.x but manifest was written by %d.x.x",
			reader.Major(), writer.Major())
	}

	if writer.Minor() > reader.Minor() {
		return fmt.Errorf("manifest written by %s is newer than reader %s", writer, reader)
	}

	return nil
}
