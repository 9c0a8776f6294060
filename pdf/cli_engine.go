package pdf

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// pageCountPatterns match the page count line across pdfcpu versions
var pageCountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Page count:\s+(\d+)`),     // "Page count: 426" (pdfcpu v0.11.1 format)
	regexp.MustCompile(`Pages:\s+(\d+)`),          // "Pages: 10"
	regexp.MustCompile(`pages\s*=\s*(\d+)`),       // "pages = 10"
	regexp.MustCompile(`No\. of pages:\s+(\d+)`), // "No. of pages: 10"
}

// CLIEngine runs the pdfcpu command line tool
type CLIEngine struct {
	binary  string
	timeout time.Duration
}

// NewCLIEngine returns an engine invoking binary, each call bounded by timeout
func NewCLIEngine(binary string, timeout time.Duration) *CLIEngine {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultCLITimeout
	}
	return &CLIEngine{binary: binary, timeout: timeout}
}

func (e *CLIEngine) Name() string {
	return "pdfcpu-cli"
}

func (e *CLIEngine) run(ctx context.Context, op string, args ...string) ([]byte, error) {
	output, err := execCommandWithTimeout(ctx, e.timeout, e.binary, args...)
	if err != nil {
		if outputStr := strings.TrimSpace(string(output)); outputStr != "" {
			return output, fmt.Errorf("pdfcpu %s failed: %w\nOutput: %s", op, err, outputStr)
		}
		return output, fmt.Errorf("pdfcpu %s failed: %w", op, err)
	}
	return output, nil
}

// PageCount reads the page count from `pdfcpu info`
func (e *CLIEngine) PageCount(ctx context.Context, inFile string) (int, error) {
	output, err := e.run(ctx, "info", "info", inFile)
	if err != nil {
		return 0, err
	}
	return parsePageCount(string(output))
}

func parsePageCount(output string) (int, error) {
	for _, re := range pageCountPatterns {
		matches := re.FindStringSubmatch(output)
		if len(matches) > 1 {
			if pageCount, err := strconv.Atoi(matches[1]); err == nil {
				return pageCount, nil
			}
		}
	}
	return 0, fmt.Errorf("could not determine page count from output: %s", output)
}

// Collect runs `pdfcpu collect`, which keeps selection order and repeats
func (e *CLIEngine) Collect(ctx context.Context, inFile, outFile string, pages []int) error {
	_, err := e.run(ctx, "collect", "collect", "-p", joinPages(pages), "--", inFile, outFile)
	return err
}

// RemovePages runs `pdfcpu pages remove -p pages -- inFile outFile`
func (e *CLIEngine) RemovePages(ctx context.Context, inFile, outFile string, pages []int) error {
	_, err := e.run(ctx, "remove", "pages", "remove", "-p", joinPages(pages), "--", inFile, outFile)
	return err
}

// Rotate runs `pdfcpu rotate [-p pages] -- inFile rotation outFile`
func (e *CLIEngine) Rotate(ctx context.Context, inFile, outFile string, degrees int, pages []int) error {
	if err := validateRotation(degrees); err != nil {
		return err
	}
	args := []string{"rotate"}
	if len(pages) > 0 {
		args = append(args, "-p", joinPages(pages))
	}
	args = append(args, "--", inFile, strconv.Itoa(degrees), outFile)
	_, err := e.run(ctx, "rotate", args...)
	return err
}

// Merge runs `pdfcpu merge -- outFile inFile...`
func (e *CLIEngine) Merge(ctx context.Context, inFiles []string, outFile string) error {
	args := append([]string{"merge", "--", outFile}, inFiles...)
	_, err := e.run(ctx, "merge", args...)
	return err
}

// Optimize runs `pdfcpu optimize`
func (e *CLIEngine) Optimize(ctx context.Context, inFile, outFile string) error {
	_, err := e.run(ctx, "optimize", "optimize", inFile, outFile)
	return err
}

// RemoveWatermarks removes pdfcpu watermarks, falling back to stamps when
// the document has none. Images drawn as regular page content are untouched.
func (e *CLIEngine) RemoveWatermarks(ctx context.Context, inFile, outFile string) error {
	output, err := execCommandWithTimeout(ctx, e.timeout, e.binary, "watermark", "remove", "--", inFile, outFile)
	if err == nil {
		return nil
	}

	outputStr := string(output)
	if !strings.Contains(outputStr, "no watermarks found") && !strings.Contains(outputStr, "no stamps found") {
		if outputStr != "" {
			return fmt.Errorf("pdfcpu watermark remove failed: %w\nOutput: %s", err, outputStr)
		}
		return fmt.Errorf("pdfcpu watermark remove failed: %w", err)
	}

	stampOutput, stampErr := execCommandWithTimeout(ctx, e.timeout, e.binary, "stamp", "remove", "--", inFile, outFile)
	if stampErr == nil {
		return nil
	}
	if strings.Contains(string(stampOutput), "no stamps found") {
		return ErrNoWatermarks
	}
	return fmt.Errorf("pdfcpu stamp remove also failed: %w", stampErr)
}

func joinPages(pages []int) string {
	return strings.Join(pageSelection(pages), ",")
}
