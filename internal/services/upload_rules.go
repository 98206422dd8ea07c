package services

import (
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// AllowedExtensions are the upload types the extractors understand.
var AllowedExtensions = map[string]bool{
	"pdf":  true,
	"txt":  true,
	"docx": true,
}

// AllowedFile reports whether filename ends in an accepted extension. Only the
// suffix is checked; the content is never inspected.
func AllowedFile(filename string) bool {
	ext, ok := FileExt(filename)
	return ok && AllowedExtensions[ext]
}

// FileExt returns the lower-cased text after the last dot.
func FileExt(filename string) (string, bool) {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return "", false
	}
	return strings.ToLower(filename[i+1:]), true
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM0": true, "COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT0": true, "LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SecureFilename reduces a client-supplied filename to a flat ASCII name that
// is safe to join onto the upload directory. It may return "".
//
//	SecureFilename("My cool movie.mov")      == "My_cool_movie.mov"
//	SecureFilename("../../../etc/passwd")    == "etc_passwd"
//	SecureFilename("i contain cool ümläuts") == "i_contain_cool_umlauts"
func SecureFilename(filename string) string {
	filename = toASCII(norm.NFKD.String(filename))
	filename = strings.NewReplacer("/", " ", `\`, " ").Replace(filename)
	filename = strings.Join(strings.Fields(filename), "_")
	filename = unsafeFilenameChars.ReplaceAllString(filename, "")
	filename = strings.Trim(filename, "._")

	if runtime.GOOS == "windows" && filename != "" &&
		windowsDeviceNames[strings.ToUpper(strings.SplitN(filename, ".", 2)[0])] {
		filename = "_" + filename
	}
	return filename
}

// toASCII drops every non-ASCII rune, which after NFKD removes combining marks.
func toASCII(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
