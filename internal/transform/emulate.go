package transform

import (
	"strings"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// emulationMessage is the failure text of every generated layout assertion
const emulationMessage = "SmartUI layout emulation: element is not visible"

// LayoutIntent describes a layout-only comparison that SmartUI cannot express
// directly. Selector and Driver are expressions in the target language.
type LayoutIntent struct {
	Language  types.Language
	Framework types.Framework
	Driver    string
	Selector  string
	Indent    string
}

// EmulateLayout returns the code that approximates a layout comparison by
// checking the element is rendered. The text is meant to be inserted at the
// start of a statement indented by intent.Indent: every line ends with a
// newline followed by Indent.
func EmulateLayout(intent LayoutIntent) string {
	var sb strings.Builder
	for _, line := range layoutLines(intent) {
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(intent.Indent)
	}
	return sb.String()
}

// layoutLines returns the template lines, indented relative to the statement
func layoutLines(intent LayoutIntent) []string {
	sel := intent.Selector
	if sel == "" {
		sel = defaultSelector(intent.Language)
	}

	switch intent.Language {
	case types.LanguageJava:
		check := intent.Driver + ".findElement(org.openqa.selenium.By.cssSelector(" + sel + ")).isDisplayed()"
		if intent.Framework == types.FrameworkPlaywright {
			check = intent.Driver + ".locator(" + sel + ").isVisible()"
		}
		return []string{
			"// SmartUI: layout comparison emulated with a visibility check, review manually",
			"if (!" + check + ") {",
			`    throw new AssertionError("` + emulationMessage + `");`,
			"}",
		}

	case types.LanguagePython:
		check := intent.Driver + `.find_element("css selector", ` + sel + ").is_displayed()"
		if intent.Framework == types.FrameworkPlaywright {
			check = intent.Driver + ".locator(" + sel + ").is_visible()"
		}
		return []string{
			"# SmartUI: layout comparison emulated with a visibility check, review manually",
			"assert " + check + `, "` + emulationMessage + `"`,
		}
	}

	comment := "// SmartUI: layout comparison emulated with a visibility check, review manually"
	switch intent.Framework {
	case types.FrameworkCypress:
		return []string{comment, "cy.get(" + sel + ").should('be.visible');"}
	case types.FrameworkPuppeteer:
		return []string{comment, "if (!(await " + intent.Driver + ".$(" + sel + "))) throw new Error('" + emulationMessage + "');"}
	case types.FrameworkSelenium:
		return []string{comment, "if (!(await " + intent.Driver + ".findElement({ css: " + sel + " }).isDisplayed())) throw new Error('" + emulationMessage + "');"}
	case types.FrameworkWebdriverIO:
		return []string{comment, "if (!(await " + intent.Driver + ".$(" + sel + ").isDisplayed())) throw new Error('" + emulationMessage + "');"}
	default:
		return []string{comment, "if (!(await " + intent.Driver + ".locator(" + sel + ").isVisible())) throw new Error('" + emulationMessage + "');"}
	}
}

func defaultSelector(lang types.Language) string {
	if lang == types.LanguageJava || lang == types.LanguagePython {
		return `"body"`
	}
	return "'body'"
}
