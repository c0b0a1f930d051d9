package sdk

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingAmount = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)(.*)$`)

// ScaleIngredientAmount multiplies the leading number of an amount such as
// "200g" or "1,5 EL" by factor, rounded to two decimals. Amounts without a
// leading number are returned unchanged, as are factors of 0 and 1.
func ScaleIngredientAmount(amount string, factor float64) string {
	if amount == "" || factor == 0 || factor == 1 {
		return amount
	}
	match := leadingAmount.FindStringSubmatch(strings.TrimSpace(amount))
	if match == nil {
		return amount
	}

	value, err := strconv.ParseFloat(strings.Replace(match[1], ",", ".", 1), 64)
	if err != nil {
		return amount
	}

	scaled := math.Round(value*factor*100) / 100
	var formatted string
	if scaled == math.Trunc(scaled) {
		formatted = strconv.FormatInt(int64(scaled), 10)
	} else {
		formatted = strconv.FormatFloat(scaled, 'f', -1, 64)
	}
	return formatted + match[2]
}

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// ResolveImageURL prefixes root-relative image paths with the application base path.
func ResolveImageURL(imageURL, basePath string) string {
	switch {
	case imageURL == "":
		return ""
	case absoluteURL.MatchString(imageURL):
		return imageURL
	case strings.HasPrefix(imageURL, "/"):
		if basePath == "" || basePath == "/" {
			return imageURL
		}
		return strings.TrimSuffix(basePath, "/") + imageURL
	default:
		return imageURL
	}
}
