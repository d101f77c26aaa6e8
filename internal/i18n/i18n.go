// Package i18n localizes user-facing strings and resolves locales.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLocale is used when a requested locale is not supported.
const DefaultLocale = "en"

var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.Portuguese,
}

var (
	matcher = language.NewMatcher(supported)
	cat     = mustBuildCatalog()
)

// Locales lists the supported locale codes, default first.
func Locales() []string {
	out := make([]string, len(supported))
	for i, tag := range supported {
		out[i] = baseCode(tag)
	}
	return out
}

// Match resolves a requested locale (for example "pt-BR") to the closest
// supported locale code, falling back to DefaultLocale.
func Match(locale string) string {
	requested, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	_, idx, conf := matcher.Match(requested)
	if conf == language.No {
		return DefaultLocale
	}
	return baseCode(supported[idx])
}

// Next returns the supported locale that follows locale, wrapping around.
func Next(locale string) string {
	locales := Locales()
	current := Match(locale)
	for i, code := range locales {
		if code == current {
			return locales[(i+1)%len(locales)]
		}
	}
	return DefaultLocale
}

// Printer returns a message printer for the locale.
func Printer(locale string) *message.Printer {
	return message.NewPrinter(language.Make(Match(locale)), message.Catalog(cat))
}

func baseCode(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range translations {
		if err := b.SetString(language.Spanish, key, tr.es); err != nil {
			panic(fmt.Sprintf("i18n: %q (es): %v", key, err))
		}
		if err := b.SetString(language.Portuguese, key, tr.pt); err != nil {
			panic(fmt.Sprintf("i18n: %q (pt): %v", key, err))
		}
	}
	return b
}

type translation struct {
	es string
	pt string
}

// Keys are the English strings.
var translations = map[string]translation{
	// typing screen
	"Progress %d%%":         {"Progreso %d%%", "Progresso %d%%"},
	"WPM %d":                {"PPM %d", "PPM %d"},
	"CPM %d":                {"CPM %d", "CPM %d"},
	"Accuracy %d%%":         {"Precisión %d%%", "Precisão %d%%"},
	"Errors %d":             {"Errores %d", "Erros %d"},
	"Time %.1fs":            {"Tiempo %.1fs", "Tempo %.1fs"},
	"Start typing to begin": {"Empieza a escribir para comenzar", "Comece a digitar para iniciar"},
	"No texts available for %s": {
		"No hay textos disponibles para %s",
		"Nenhum texto disponível para %s",
	},
	"enter: start  ctrl+r: new text  ctrl+l: language  ctrl+t: theme  ctrl+b: bell  ctrl+e: export  ctrl+c: quit": {
		"enter: iniciar  ctrl+r: nuevo texto  ctrl+l: idioma  ctrl+t: tema  ctrl+b: sonido  ctrl+e: exportar  ctrl+c: salir",
		"enter: iniciar  ctrl+r: novo texto  ctrl+l: idioma  ctrl+t: tema  ctrl+b: som  ctrl+e: exportar  ctrl+c: sair",
	},
	"Exported to %s":    {"Exportado a %s", "Exportado para %s"},
	"Export failed: %v": {"Error al exportar: %v", "Falha ao exportar: %v"},
	"Bell on":           {"Sonido activado", "Som ativado"},
	"Bell off":          {"Sonido desactivado", "Som desativado"},
	"Language: %s":      {"Idioma: %s", "Idioma: %s"},
	"Theme: %s":         {"Tema: %s", "Tema: %s"},
	"Saving preferences failed: %v": {
		"Error al guardar preferencias: %v",
		"Falha ao salvar preferências: %v",
	},

	// report
	"Overview":           {"Resumen", "Resumo"},
	"Errors":             {"Errores", "Erros"},
	"Keystrokes":         {"Pulsaciones", "Teclas"},
	"Session complete":   {"Sesión completada", "Sessão concluída"},
	"WPM":                {"PPM", "PPM"},
	"CPM":                {"CPM", "CPM"},
	"Accuracy":           {"Precisión", "Precisão"},
	"Time":               {"Tiempo", "Tempo"},
	"Error rate":         {"Tasa de error", "Taxa de erro"},
	"Words":              {"Palabras", "Palavras"},
	"Chars":              {"Caracteres", "Caracteres"},
	"higher":             {"superior", "acima"},
	"lower":              {"inferior", "abaixo"},
	"on par":             {"en la media", "na média"},
	"Pace (WPM)":         {"Ritmo (PPM)", "Ritmo (PPM)"},
	"No errors.":         {"Sin errores.", "Sem erros."},
	"No keystrokes.":     {"Sin pulsaciones.", "Sem teclas."},
	"Most frequent errors": {"Errores más frecuentes", "Erros mais frequentes"},
	"Expected":           {"Esperado", "Esperado"},
	"Typed":              {"Escrito", "Digitado"},
	"Count":              {"Cantidad", "Quantidade"},
	"Index":              {"Posición", "Posição"},
	"Status":             {"Estado", "Status"},
	"Offset (ms)":        {"Desfase (ms)", "Deslocamento (ms)"},
	"correct":            {"correcto", "correto"},
	"incorrect":          {"incorrecto", "incorreto"},
	"<space>":            {"<espacio>", "<espaço>"},
	"Weakest characters": {"Caracteres más débiles", "Caracteres mais fracos"},
	"Char":               {"Carácter", "Caractere"},
	"WPM vs average %d: %s (%+d)": {
		"PPM frente a la media %d: %s (%+d)",
		"PPM comparado à média %d: %s (%+d)",
	},
	"CPM vs average %d: %s (%+d)": {
		"CPM frente a la media %d: %s (%+d)",
		"CPM comparado à média %d: %s (%+d)",
	},
	"Reference characters: %d  Errors: %d  Correct characters: %d": {
		"Caracteres de referencia: %d  Errores: %d  Caracteres correctos: %d",
		"Caracteres de referência: %d  Erros: %d  Caracteres corretos: %d",
	},
	"Nav: left/right  Scroll: up/down  New text: r  Export: e  Quit: q": {
		"Navegar: izq/der  Desplazar: arriba/abajo  Nuevo texto: r  Exportar: e  Salir: q",
		"Navegar: esq/dir  Rolar: cima/baixo  Novo texto: r  Exportar: e  Sair: q",
	},

	// export and summary
	"General stats":       {"Estadísticas generales", "Estatísticas gerais"},
	"Keystroke history":   {"Historial de pulsaciones", "Histórico de teclas"},
	"Report generated on": {"Informe generado el", "Relatório gerado em"},
	"Session":             {"Sesión", "Sessão"},
	"Locale":              {"Idioma", "Idioma"},
	"Time elapsed (s)":    {"Tiempo transcurrido (s)", "Tempo decorrido (s)"},
	"Error count":         {"Número de errores", "Número de erros"},
	"Error rate (%%)":     {"Tasa de error (%%)", "Taxa de erro (%%)"},
	"Sample text":         {"Texto de muestra", "Texto de exemplo"},
	"Timestamp":           {"Marca de tiempo", "Data e hora"},
	"Session summary":     {"Resumen de la sesión", "Resumo da sessão"},
}
