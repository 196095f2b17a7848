package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/facio/facio/i18n"
)

// FirstInvoiceNumber is used when a directory holds no numbered invoices.
const FirstInvoiceNumber = 1001

var numberSuffix = regexp.MustCompile(`(?i)_(\d+)\.pdf$`)

// NextInvoiceNumber scans dir for files ending in _<n>.pdf and returns the
// highest n plus one, or FirstInvoiceNumber when there are none.
func NextInvoiceNumber(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}
	highest := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := numberSuffix.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	// Only numbers above zero count, so a folder of _0.pdf files starts at FirstInvoiceNumber.
	if highest == 0 {
		return FirstInvoiceNumber, nil
	}
	return highest + 1, nil
}

// SanitizeFilename keeps letters and digits and folds every other run of
// characters into a single underscore.
func SanitizeFilename(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// InvoiceFilename is "{invoice|faktura}_{client}_{number}.pdf".
func InvoiceFilename(lang, clientName, number string) string {
	client := SanitizeFilename(clientName)
	if client == "" {
		client = "client"
	}
	num := SanitizeFilename(number)
	if num == "" {
		num = "0"
	}
	return fmt.Sprintf("%s_%s_%s.pdf", i18n.T(lang, "file_prefix"), client, num)
}

// StampedFilename is "{original}_stamped_{unix millis}.pdf".
func StampedFilename(original string, at time.Time) string {
	base := filepath.Base(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	return fmt.Sprintf("%s_stamped_%d.pdf", base, at.UnixMilli())
}
