package splitter

import "context"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// FileSplitter runs a separation tool on an input file and leaves its
// results somewhere under stemOutputDir. The layout below stemOutputDir is
// the tool's choice and has to be discovered afterwards.
//
//counterfeiter:generate . FileSplitter
type FileSplitter interface {
	SplitFile(ctx context.Context, inputFilePath string, stemOutputDir string, splitType SplitType, engineType EngineType) error
}
