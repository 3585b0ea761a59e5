package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

const percyCypressSpec = `describe('home', () => {
  it('renders', () => {
    cy.visit('/');
    cy.percySnapshot('Home page', { percyCSS: '.ads { display: none; }', minHeight: 1024 });
  });
});
`

func TestJS_PercyCypressCommand(t *testing.T) {
	res := run(t, types.PlatformPercy, types.FrameworkCypress, "cypress/e2e/home.cy.js", percyCypressSpec)

	want := `describe('home', () => {
  it('renders', () => {
    cy.visit('/');
    cy.smartuiSnapshot('Home page', { customCSS: '.ads { display: none; }' });
  });
});
`
	assert.Equal(t, want, res.Content)
	assert.Equal(t, 1, res.SnapshotCount)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, `cypress/e2e/home.cy.js:4: option "minHeight" dropped: SmartUI has no equivalent`, res.Warnings[0].Message)
}

func TestJS_TransformIsIdempotent(t *testing.T) {
	first := run(t, types.PlatformPercy, types.FrameworkCypress, "home.cy.js", percyCypressSpec)
	second := run(t, types.PlatformPercy, types.FrameworkCypress, "home.cy.js", first.Content)

	assert.Equal(t, first.Content, second.Content)
	assert.Empty(t, second.Warnings)
	assert.Zero(t, second.SnapshotCount)
}

func TestJS_PercyAliasedImport(t *testing.T) {
	src := `import { test } from '@playwright/test';
import { percySnapshot as snap } from '@percy/playwright';

test('home', async ({ page }) => {
  await snap(page, 'Home');
});
`
	res := run(t, types.PlatformPercy, types.FrameworkUnknown, "tests/home.spec.js", src)

	want := `import { test } from '@playwright/test';
import { smartuiSnapshot as snap } from '@lambdatest/playwright-driver';

test('home', async ({ page }) => {
  await snap(page, 'Home');
});
`
	assert.Equal(t, want, res.Content)
	assert.Equal(t, 1, res.SnapshotCount)
	assert.Empty(t, res.Warnings)
}

func TestJS_PercyDefaultImport(t *testing.T) {
	src := "import percySnapshot from '@percy/playwright';\n"
	res := run(t, types.PlatformPercy, types.FrameworkPlaywright, "a.spec.ts", src)
	assert.Equal(t, "import { smartuiSnapshot as percySnapshot } from '@lambdatest/playwright-driver';\n", res.Content)
}

func TestJS_PercyRequire(t *testing.T) {
	src := `const { Builder } = require('selenium-webdriver');
const percySnapshot = require('@percy/selenium-webdriver');

async function run(driver) {
  await percySnapshot(driver, 'Home', { widths: [1280] });
}
`
	res := run(t, types.PlatformPercy, types.FrameworkUnknown, "test/home.test.js", src)

	want := `const { Builder } = require('selenium-webdriver');
const { smartuiSnapshot: percySnapshot } = require('@lambdatest/selenium-driver');

async function run(driver) {
  await percySnapshot(driver, 'Home');
}
`
	assert.Equal(t, want, res.Content)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, `option "widths" dropped`)
}

func TestJS_CypressSupportImportRetargeted(t *testing.T) {
	res := run(t, types.PlatformPercy, types.FrameworkCypress, "cypress/support/e2e.js", "import '@percy/cypress';\n")
	assert.Equal(t, "import '@lambdatest/cypress-driver';\n", res.Content)
	assert.Empty(t, res.Warnings)
}

func TestJS_CypressPluginUnwrapped(t *testing.T) {
	src := `const { defineConfig } = require('cypress');
const eyesPlugin = require('@applitools/eyes-cypress');

module.exports = eyesPlugin(defineConfig({
  e2e: {},
}));
`
	res := run(t, types.PlatformApplitools, types.FrameworkCypress, "cypress.config.js", src)

	want := `const { defineConfig } = require('cypress');

module.exports = defineConfig({
  e2e: {},
});
`
	assert.Equal(t, want, res.Content)
	assert.Len(t, res.Warnings, 2)
	assertWarning(t, res, "eyesPlugin wrapper removed")
}

func TestJS_ApplitoolsCypressCommands(t *testing.T) {
	src := `describe('home', () => {
  it('renders', () => {
    cy.eyesOpen({ appName: 'App', testName: 'Home' });
    cy.eyesCheckWindow({ tag: 'Home', target: 'region', selector: '.hero' });
    cy.eyesClose();
  });
});
`
	res := run(t, types.PlatformApplitools, types.FrameworkCypress, "home.cy.js", src)

	want := `describe('home', () => {
  it('renders', () => {
    cy.smartuiSnapshot('Home', { element: { cssSelector: '.hero' } });
  });
});
`
	assert.Equal(t, want, res.Content)
	assert.Equal(t, 1, res.SnapshotCount)
	assert.Len(t, res.Warnings, 2)
	assertWarning(t, res, "cy.eyesOpen removed")
	assertWarning(t, res, "cy.eyesClose removed")
}

func TestJS_ApplitoolsPlaywrightClient(t *testing.T) {
	src := `import { test } from '@playwright/test';
import { Eyes, Target } from '@applitools/eyes-playwright';

test('home', async ({ page }) => {
  const eyes = new Eyes();
  await eyes.open(page, 'App', 'Home');
  await eyes.check('Home', Target.window().fully());
  await eyes.close();
});
`
	res := run(t, types.PlatformApplitools, types.FrameworkPlaywright, "tests/home.spec.js", src)

	want := `import { test } from '@playwright/test';
import { smartuiSnapshot } from '@lambdatest/playwright-driver';

test('home', async ({ page }) => {
  await smartuiSnapshot(page, 'Home', { fullPage: true });
});
`
	assert.Equal(t, want, res.Content)
	assert.Equal(t, 1, res.SnapshotCount)
	assert.Len(t, res.Warnings, 4)
	assertWarning(t, res, "bindings Eyes, Target removed")
	assertWarning(t, res, "Eyes eyes removed")
	assertWarning(t, res, "eyes.open removed")
	assertWarning(t, res, "eyes.close removed")
}

func TestJS_ApplitoolsPlaywrightFixture(t *testing.T) {
	src := `import { test, expect } from '@applitools/eyes-playwright/fixture';

test('home', async ({ page, eyes }) => {
  await page.goto('/');
  await eyes.check('Home', { fully: true });
  await expect(page).toHaveTitle(/Home/);
});
`
	res := run(t, types.PlatformApplitools, types.FrameworkPlaywright, "tests/home.spec.ts", src)

	want := `import { smartuiSnapshot } from '@lambdatest/playwright-driver';
import { test, expect } from '@playwright/test';

test('home', async ({ page }) => {
  await page.goto('/');
  await smartuiSnapshot(page, 'Home', { fullPage: true });
  await expect(page).toHaveTitle(/Home/);
});
`
	assert.Equal(t, want, res.Content)
	assert.Equal(t, 1, res.SnapshotCount)
	assert.Empty(t, res.Warnings)
}

func TestJS_ApplitoolsLayoutEmulated(t *testing.T) {
	src := `import { Eyes, Target } from '@applitools/eyes-playwright';

test('home', async ({ page }) => {
  const eyes = new Eyes();
  await eyes.open(page, 'App', 'Home');
  await eyes.check('Hero', Target.region('#hero').layout());
});
`
	res := run(t, types.PlatformApplitools, types.FrameworkPlaywright, "home.spec.js", src)

	want := `import { smartuiSnapshot } from '@lambdatest/playwright-driver';

test('home', async ({ page }) => {
  // SmartUI: layout comparison emulated with a visibility check, review manually
  if (!(await page.locator('#hero').isVisible())) throw new Error('SmartUI layout emulation: element is not visible');
  await smartuiSnapshot(page, 'Hero', { element: { cssSelector: '#hero' } });
});
`
	assert.Equal(t, want, res.Content)
	assertWarning(t, res, "layout comparison emulated with a visibility check; the emulation is approximate and needs manual review")
}

func TestJS_TypedReceiverInTypeScript(t *testing.T) {
	src := `import { Eyes, Target, ClassicRunner } from '@applitools/eyes-webdriverio';

let eyes: Eyes;

beforeEach(async () => {
  eyes = new Eyes(new ClassicRunner());
  await eyes.open(browser, 'App', 'Home');
});

it('home', async () => {
  await eyes.checkWindow('Home');
});
`
	res := run(t, types.PlatformApplitools, types.FrameworkUnknown, "test/home.e2e.ts", src)

	want := `import { smartuiSnapshot } from '@lambdatest/webdriverio-driver';


beforeEach(async () => {
});

it('home', async () => {
  await smartuiSnapshot(browser, 'Home');
});
`
	assert.Equal(t, want, res.Content)
	assert.Equal(t, 1, res.SnapshotCount)
	assert.Len(t, res.Warnings, 4)
}

func TestJS_SaucePlaywrightDropsTestInfo(t *testing.T) {
	src := `import { test } from '@playwright/test';
import { sauceVisualCheck } from '@saucelabs/visual-playwright';

test('home', async ({ page }, testInfo) => {
  await sauceVisualCheck(page, testInfo, 'Home', { fullPage: true });
});
`
	res := run(t, types.PlatformSauceLabs, types.FrameworkPlaywright, "tests/home.spec.ts", src)

	want := `import { test } from '@playwright/test';
import { smartuiSnapshot } from '@lambdatest/playwright-driver';

test('home', async ({ page }, testInfo) => {
  await smartuiSnapshot(page, 'Home', { fullPage: true });
});
`
	assert.Equal(t, want, res.Content)
	assert.Empty(t, res.Warnings)
}

func TestJS_SauceCypress(t *testing.T) {
	src := `it('home', () => {
  cy.sauceVisualCheck('Home', { clipSelector: '.main', captureDom: true });
  cy.sauceVisualResults();
});
`
	res := run(t, types.PlatformSauceLabs, types.FrameworkCypress, "home.cy.ts", src)

	want := `it('home', () => {
  cy.smartuiSnapshot('Home', { element: { cssSelector: '.main' } });
});
`
	assert.Equal(t, want, res.Content)
	assert.Len(t, res.Warnings, 2)
	assertWarning(t, res, `option "captureDom" dropped`)
}

func TestJS_OptionEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		warning string
		details string
	}{
		{
			name:    "unknown key suggests the closest",
			src:     "cy.percySnapshot('Home', { percyCSSS: 'a' });\n",
			want:    "cy.smartuiSnapshot('Home');\n",
			warning: `unknown option "percyCSSS" dropped (did you mean "percyCSS"?)`,
			details: "did you mean percyCSS?",
		},
		{
			name:    "leading spread stays in front",
			src:     "cy.percySnapshot('Home', { ...base, percyCSS: 'a' });\n",
			want:    "cy.smartuiSnapshot('Home', { ...base, customCSS: 'a' });\n",
			warning: "spread options ...base kept verbatim",
		},
		{
			name:    "trailing spread stays behind",
			src:     "cy.percySnapshot('Home', { percyCSS: 'a', ...overrides });\n",
			want:    "cy.smartuiSnapshot('Home', { customCSS: 'a', ...overrides });\n",
			warning: "spread options ...overrides kept verbatim",
		},
		{
			name:    "options by reference",
			src:     "cy.percySnapshot('Home', opts);\n",
			want:    "cy.smartuiSnapshot('Home', opts);\n",
			warning: "options opts passed by reference kept verbatim",
		},
		{
			name:    "missing name uses the test title",
			src:     "cy.percySnapshot();\n",
			want:    "cy.smartuiSnapshot(Cypress.currentTest.title);\n",
			warning: "snapshot has no name; using Cypress.currentTest.title",
		},
		{
			name:    "ignore selectors",
			src:     "cy.percySnapshot('Home', { ignoreRegionSelectors: ['.ad', '.clock'] });\n",
			want:    "cy.smartuiSnapshot('Home', { ignoreDOM: { cssSelector: ['.ad', '.clock'] } });\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, types.PlatformPercy, types.FrameworkCypress, "a.cy.js", tt.src)
			assert.Equal(t, tt.want, res.Content)
			assert.Equal(t, 1, res.SnapshotCount)
			if tt.warning == "" {
				assert.Empty(t, res.Warnings)
				return
			}
			require.Len(t, res.Warnings, 1)
			assert.Contains(t, res.Warnings[0].Message, tt.warning)
			assert.Equal(t, tt.details, res.Warnings[0].Details)
		})
	}
}

func TestJS_SpreadsKeepTheirPlaceAroundMappedKeys(t *testing.T) {
	src := "cy.percySnapshot('Home', { ...base, percyCSS: 'a', scope: '#main', ...overrides });\n"
	res := run(t, types.PlatformPercy, types.FrameworkCypress, "a.cy.js", src)

	assert.Equal(t, "cy.smartuiSnapshot('Home', { ...base, customCSS: 'a', element: { cssSelector: '#main' }, ...overrides });\n", res.Content)
	assert.Equal(t, 1, res.SnapshotCount)
	require.Len(t, res.Warnings, 2)
	assertWarning(t, res, "spread options ...base kept verbatim")
	assertWarning(t, res, "spread options ...overrides kept verbatim")
}
