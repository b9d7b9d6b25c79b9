package screen

// IconFunc returns the file-type icon for a file name, or "".
type IconFunc func(name string) string

var fileIcon IconFunc = func(string) string { return "" }

// SetIconFunc sets the function used to decorate file names with icons.
func SetIconFunc(fn IconFunc) {
	if fn == nil {
		fn = func(string) string { return "" }
	}
	fileIcon = fn
}

func iconWithSpace(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}

func labelWithIcon(name, label string, showIcons bool) string {
	if !showIcons {
		return label
	}
	return iconWithSpace(fileIcon(name)) + label
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
