package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// The probe primitives below are the single way this package locates
// controls in an unstable UI: each takes a prioritized candidate list and
// returns the first selector that currently matches. Both the session
// provider and the publish controller go through them.

// probeVisibleScript returns the first candidate selector with at least one
// visible match, or "".
const probeVisibleScript = `(function(selectors) {
	function isVisible(el) {
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		return rect.width > 0 && rect.height > 0 &&
			style.display !== 'none' && style.visibility !== 'hidden' && style.opacity !== '0';
	}
	for (const sel of selectors) {
		let els;
		try { els = document.querySelectorAll(sel); } catch (e) { continue; }
		for (const el of els) {
			if (isVisible(el)) return sel;
		}
	}
	return "";
})(%s)`

// probePresentScript is the same but without the visibility requirement,
// for controls that exist in the DOM while hidden (the file input).
const probePresentScript = `(function(selectors) {
	for (const sel of selectors) {
		try {
			if (document.querySelector(sel)) return sel;
		} catch (e) { continue; }
	}
	return "";
})(%s)`

// scanControlsScript snapshots every visible interactive element matching
// the scan selector: its text, its disabled state, and a unique selector
// minted by tagging the element. Extraction happens inside the browser's
// main thread so the results cannot race with DOM mutations.
const scanControlsScript = `(function(scanSelector) {
	const attr = 'data-poster-scan';
	const out = [];
	let els;
	try { els = document.querySelectorAll(scanSelector); } catch (e) { return out; }
	let i = 0;
	for (const el of els) {
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		if (rect.width <= 0 || rect.height <= 0 ||
			style.display === 'none' || style.visibility === 'hidden') continue;
		const id = 'ps-' + (i++) + '-' + Date.now() + '-' + Math.random().toString(36).slice(2, 8);
		el.setAttribute(attr, id);
		const text = (el.innerText || el.textContent || el.value || '').trim();
		const disabled = !!el.disabled || el.getAttribute('aria-disabled') === 'true';
		out.push({ selector: '[' + attr + '="' + id + '"]', text: text, disabled: disabled });
	}
	return out;
})(%s)`

// Control is the snapshot of one interactive element taken during a scan.
type Control struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
	Disabled bool   `json:"disabled"`
}

// jsonEncode safely injects a Go value into a JS template.
func jsonEncode(v interface{}) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func evaluate(ctx context.Context, script string, out interface{}) error {
	return chromedp.Run(ctx,
		chromedp.Evaluate(script, out, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithSilent(true)
		}),
	)
}

// FirstVisible polls until one of the candidate selectors has a visible
// match, returning that selector. Fails when timeout elapses first.
func FirstVisible(ctx context.Context, candidates []string, timeout, poll time.Duration) (string, error) {
	return pollProbe(ctx, probeVisibleScript, candidates, timeout, poll)
}

// FirstPresent polls until one of the candidate selectors matches any node,
// visible or not.
func FirstPresent(ctx context.Context, candidates []string, timeout, poll time.Duration) (string, error) {
	return pollProbe(ctx, probePresentScript, candidates, timeout, poll)
}

func pollProbe(ctx context.Context, scriptTmpl string, candidates []string, timeout, poll time.Duration) (string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	script := fmt.Sprintf(scriptTmpl, jsonEncode(candidates))
	for {
		var match string
		if err := evaluate(probeCtx, script, &match); err != nil {
			if probeCtx.Err() != nil {
				return "", fmt.Errorf("no candidate matched within %v: %w", timeout, probeCtx.Err())
			}
			return "", fmt.Errorf("probe script failed: %w", err)
		}
		if match != "" {
			return match, nil
		}
		if err := sleep(probeCtx, poll); err != nil {
			return "", fmt.Errorf("no candidate matched within %v: %w", timeout, err)
		}
	}
}

// ScanControls snapshots the page's interactive elements.
func ScanControls(ctx context.Context) ([]Control, error) {
	var controls []Control
	script := fmt.Sprintf(scanControlsScript, jsonEncode(publishScanSelector))
	if err := evaluate(ctx, script, &controls); err != nil {
		return nil, fmt.Errorf("control scan failed: %w", err)
	}
	return controls, nil
}

// ChooseEnabled picks the first control whose text matches one of the
// publish-intent labels and whose disabled state is false.
func ChooseEnabled(controls []Control, labels []string) (Control, bool) {
	for _, c := range controls {
		if c.Disabled {
			continue
		}
		if matchesLabel(c.Text, labels) {
			return c, true
		}
	}
	return Control{}, false
}

// matchesLabel compares case-insensitively after folding internal
// whitespace. The match is exact, not substring: "Repost" must not satisfy
// the label "post".
func matchesLabel(text string, labels []string) bool {
	folded := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if folded == "" {
		return false
	}
	for _, label := range labels {
		if folded == label {
			return true
		}
	}
	return false
}
