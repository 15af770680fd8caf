package cmd

import "fmt"

const (
	outputModePrint = "print"
	outputModeCopy  = "copy"
	outputModeFile  = "file"
)

// resolveOutputMode picks a single delivery mode from the output flags.
func resolveOutputMode(outputFile string, copyFlag, printFlag bool) (string, error) {
	selected := 0
	if outputFile != "" {
		selected++
	}
	if copyFlag {
		selected++
	}
	if printFlag {
		selected++
	}
	if selected > 1 {
		return "", fmt.Errorf("only one of --output, --copy, or --print may be set")
	}
	switch {
	case outputFile != "":
		return outputModeFile, nil
	case copyFlag:
		return outputModeCopy, nil
	default:
		return outputModePrint, nil
	}
}
