package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/signatures"
	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

func file(path, content string) FileContent {
	return FileContent{Path: path, Content: []byte(content)}
}

func TestPlatform_DistinctStringsPerFile(t *testing.T) {
	files := []FileContent{
		file("a.js", "percySnapshot(); percySnapshot(); import x from '@percy/playwright'"),
		file("b.js", "cy.eyesCheckWindow()"),
	}

	got := Platform(files, signatures.Default())
	assert.Equal(t, types.PlatformPercy, got.Platform)
	// "@percy/", "percySnapshot", "@percy/playwright"; the repeated call counts once
	assert.Equal(t, 3, got.Score)
	assert.Equal(t, []string{"a.js"}, got.Files)
	assert.Equal(t, []string{"@percy/", "@percy/playwright", "percySnapshot"}, got.Matches)
}

func TestPlatform_SumsAcrossFiles(t *testing.T) {
	files := []FileContent{
		file("a.js", "percySnapshot()"),
		file("b.js", "eyesOpen(); eyesCheckWindow()"),
		file("c.js", "eyesOpen()"),
	}

	got := Platform(files, signatures.Default())
	assert.Equal(t, types.PlatformApplitools, got.Platform)
	assert.Equal(t, 3, got.Score)
	assert.Equal(t, []string{"b.js", "c.js"}, got.Files)
}

func TestPlatform_TieGoesToDeclarationOrder(t *testing.T) {
	files := []FileContent{
		file("a.js", "sauceVisualCheck()"),
		file("b.js", "percySnapshot()"),
	}

	got := Platform(files, signatures.Default())
	assert.Equal(t, types.PlatformPercy, got.Platform)
	assert.Equal(t, 1, got.Score)
}

func TestPlatform_NoMatches(t *testing.T) {
	got := Platform([]FileContent{file("a.js", "cy.visit('/')")}, signatures.Default())
	assert.Equal(t, types.PlatformUnknown, got.Platform)
	assert.Zero(t, got.Score)
	assert.Empty(t, got.Matches)

	assert.Equal(t, types.PlatformUnknown, Platform(nil, signatures.Default()).Platform)
}

func TestFramework_Scoring(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    types.Framework
	}{
		{"cypress", "describe('home', () => { it('loads', () => { cy.visit('/') }) })", types.FrameworkCypress},
		{"playwright", "import { test } from '@playwright/test'\ntest('x', async ({ page }) => { await page.goto('/') })", types.FrameworkPlaywright},
		{"puppeteer", "const puppeteer = require('puppeteer'); const b = await puppeteer.launch()", types.FrameworkPuppeteer},
		{"webdriverio", "await browser.url('/'); await $('#btn').click()", types.FrameworkWebdriverIO},
		{"storybook", "import type { Meta } from '@storybook/react'\nexport default { title: 'Button' }", types.FrameworkStorybook},
		{"selenium java", "import org.openqa.selenium.WebDriver;", types.FrameworkSelenium},
		{"selenium python", "from selenium import webdriver\ndriver.get('https://x')", types.FrameworkSelenium},
		{"playwright python", "from playwright.sync_api import sync_playwright", types.FrameworkPlaywright},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, ev := Framework([]FileContent{file("spec.js", tt.content)}, signatures.Default(), types.FrameworkUnknown)
			assert.Equal(t, tt.want, fw)
			assert.Equal(t, []string{"spec.js"}, ev.Files)
			assert.NotEmpty(t, ev.Signatures)
		})
	}
}

func TestFramework_WeightAddedOncePerFile(t *testing.T) {
	files := []FileContent{file("a.js", "cy.visit('/'); cy.get('a'); cy.visit('/b')")}
	scores := ScoreFrameworks(files, signatures.Default())
	require.Equal(t, types.FrameworkCypress, scores[0].Framework)
	assert.InDelta(t, 1.0, scores[0].Score, 1e-9)
}

func TestFramework_UncappedAcrossFiles(t *testing.T) {
	files := []FileContent{
		file("a.js", "describe('a', () => {})"),
		file("b.js", "describe('b', () => {})"),
		file("c.js", "describe('c', () => {})"),
	}
	scores := ScoreFrameworks(files, signatures.Default())
	assert.InDelta(t, 0.9, scores[0].Score, 1e-9)
}

func TestFramework_SharedIdiomTieGoesToDeclarationOrder(t *testing.T) {
	// describe( weighs 0.3 for cypress, puppeteer, webdriverio and selenium
	fw, ev := Framework([]FileContent{file("a.js", "describe('x', () => {})")}, signatures.Default(), types.FrameworkUnknown)
	assert.Equal(t, types.FrameworkCypress, fw)
	assert.Equal(t, []string{`\bdescribe\(`}, ev.Signatures)
}

func TestFramework_Fallback(t *testing.T) {
	files := []FileContent{file("a.py", "print('hello')")}

	fw, ev := Framework(files, signatures.Default(), types.FrameworkUnknown)
	assert.Equal(t, types.FrameworkSelenium, fw)
	assert.Empty(t, ev.Files)
	assert.NotNil(t, ev.Files)

	fw, _ = Framework(files, signatures.Default(), types.FrameworkPlaywright)
	assert.Equal(t, types.FrameworkPlaywright, fw)
}
