// Package resources serves the console's static assets.
package resources

// StaticDirectoryPath is the path to static assets from the module root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
