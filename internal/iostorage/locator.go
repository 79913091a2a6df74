package iostorage

import "strings"

// S3Locator returns locators "s3://{bucket}/{key}".
func S3Locator(bucket string) Locator {
	return func(key string) string {
		return "s3://" + bucket + "/" + key
	}
}

// URLLocator returns locators "{base}/{key}".
func URLLocator(base string) Locator {
	base = strings.TrimRight(base, "/")
	return func(key string) string {
		return base + "/" + key
	}
}

// PrimaryKey is the storage key of a primary asset: the identifier
// followed by the lower-case extension of the source file, for example
// "abc123/P2023-05-01.I1.jpg".
func PrimaryKey(identifier, ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return identifier
	}
	return identifier + "." + ext
}
