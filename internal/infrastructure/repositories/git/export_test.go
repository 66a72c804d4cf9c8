//go:build unit

package git

//nolint:gochecknoglobals // test export
var ApplyGitSettings = applyGitSettings
