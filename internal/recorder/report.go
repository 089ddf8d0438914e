package recorder

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

// DescribeOutput renders "path (size)" for the finished recording.
func DescribeOutput(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s, %d bytes)", path, humanize.Bytes(uint64(info.Size())), info.Size()), nil
}
