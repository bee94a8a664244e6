// README: Integer-to-Spanish-words conversion for TTS-friendly replies.
package spanish

import (
	"strconv"
	"strings"
)

var (
	unidades  = []string{"", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}
	decenas10 = []string{"diez", "once", "doce", "trece", "catorce", "quince", "dieciséis", "diecisiete", "dieciocho", "diecinueve"}
	veintenas = []string{"veinte", "veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco", "veintiséis", "veintisiete", "veintiocho", "veintinueve"}
	decenas   = []string{"", "diez", "veinte", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}
	centenas  = []string{"", "ciento", "doscientos", "trescientos", "cuatrocientos", "quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos"}
)

// NumberToWords converts n into Spanish cardinal words ("350" → "trescientos
// cincuenta"). Values a route summary can plausibly produce (km, minutes,
// counts) are covered; anything above 999 999 falls back to digits.
func NumberToWords(n int) string {
	if n < 0 || n >= 1_000_000 {
		return strconv.Itoa(n)
	}
	if n == 0 {
		return "cero"
	}
	if n == 100 {
		return "cien"
	}
	if n < 1000 {
		return below1000(n)
	}

	thousands := n / 1000
	rest := n % 1000

	var res string
	if thousands == 1 {
		res = "mil"
	} else {
		// "uno" apocopates before "mil": veintiún mil, not veintiuno mil.
		res = apocope(below1000(thousands)) + " mil"
	}
	if rest > 0 {
		res += " " + below1000(rest)
	}
	return res
}

// NumberToWordsCount renders n the way it reads before a plural noun:
// masculine apocopates ("treinta y un minutos"), feminine agrees
// ("veintiuna horas").
func NumberToWordsCount(n int, feminine bool) string {
	s := NumberToWords(n)
	if !feminine {
		return apocope(s)
	}
	switch {
	case strings.HasSuffix(s, "veintiuno"):
		return strings.TrimSuffix(s, "veintiuno") + "veintiuna"
	case strings.HasSuffix(s, "uno"):
		return strings.TrimSuffix(s, "uno") + "una"
	}
	return s
}

func apocope(s string) string {
	switch {
	case strings.HasSuffix(s, "veintiuno"):
		return strings.TrimSuffix(s, "veintiuno") + "veintiún"
	case strings.HasSuffix(s, "uno"):
		return strings.TrimSuffix(s, "uno") + "un"
	}
	return s
}

func below1000(n int) string {
	if n < 100 {
		return below100(n)
	}
	cen := n / 100
	rest := n % 100
	if rest == 0 {
		if cen == 1 {
			return "cien"
		}
		return centenas[cen]
	}
	return centenas[cen] + " " + below100(rest)
}

func below100(n int) string {
	switch {
	case n < 10:
		return unidades[n]
	case n < 20:
		return decenas10[n-10]
	case n < 30:
		return veintenas[n-20]
	}
	dec := n / 10
	uni := n % 10
	if uni == 0 {
		return decenas[dec]
	}
	if uni == 1 {
		return decenas[dec] + " y uno"
	}
	return decenas[dec] + " y " + unidades[uni]
}
