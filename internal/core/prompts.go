package core

import (
	"fmt"
	"strings"
)

// Stage 1: ranked competitor ads → strategy guide
const strategyPromptTemplate = `You are a senior marketing strategist. Analyze the following top-performing %[1]s ad copies from a competitor.

Top %[2]d Ad Copies:
%[3]s

Based on these, provide a concise strategy guide. Your analysis should identify:
1.  Common Hook Styles/Opening Techniques: (e.g., question, bold claim, pain point)
2.  Typical Ad Structure: (e.g., Hook → Problem → Solution/Benefit → Credibility → CTA)
3.  Predominant Tone of Voice: (e.g., urgent, empathetic, authoritative, friendly)
4.  Most Frequent Call-to-Actions (CTAs): (e.g., "Shop Now", "Learn More", "Try Today")
5.  Key %[1]s Benefits Emphasized: (e.g., energy, gut health, mental clarity, sleep)
6.  Any unique selling propositions (USPs) or angles that seem effective.

Format your output clearly with headings for each point.
This guide will be used to help a new %[1]s brand, %[4]s, create competitive ads.`

// Stage 2: strategy guide + product → three ad formats
const adPromptTemplate = `You are a creative advertising copywriter and visual director for %[1]s, a modern %[2]s supplement brand.
Your task is to generate three distinct ad types based on the following competitor-derived strategy.
Make the ads compelling, authentic, and aligned with the %[1]s brand.

Strategy to Emulate/Adapt:
--- STRATEGY START ---
%[3]s
--- STRATEGY END ---

Product Core Message:
%[4]s

Now, create the following for %[1]s:

1.  **Static Image Ad:**
    *   **Headline:** (Compelling and short)
    *   **Body Text/Subheadline:** (Elaborate slightly on the benefit or USP)
    *   **Call to Action (CTA):** (Clear and direct)
    *   **Visual Description:** (Describe the ideal image. Think about mood, subject, colors. Consider if it should feature product, lifestyle, or benefit representation.)

2.  **Faceless User-Generated Content (UGC) Style Video Ad:**
    *   **Video Concept/Hook:** (e.g., "My morning routine changed when I found this...")
    *   **Voice-Over Script (15-30 seconds):** (Casual, relatable, benefit-focused. Could be a 'day in the life' snippet, product unboxing/use, or quick tip format.)
    *   **Key Visuals to Show (B-Roll Ideas):** (e.g., hands preparing the supplement, close-up of product, person feeling energetic doing a simple activity – without showing face clearly.)
    *   **On-screen Text (Optional):** (e.g., key benefit, discount code)
    *   **CTA (Spoken or Text Overlay):**

3.  **Face-Featuring User-Generated Content (UGC) Style Video Ad:**
    *   **Video Concept/Hook:** (e.g., "Okay, I have to tell you about this...")
    *   **Selfie-Style Testimonial Script (up to 45 seconds):** (Authentic, personal story. Focus on a specific problem %[1]s solved or a benefit experienced. Show genuine emotion. Introduce yourself briefly if natural.)
    *   **Setting/Background:** (e.g., natural home environment, outdoors, gym)
    *   **Key Visuals:** (Primarily the person talking to the camera, maybe a quick shot of the product if they show it.)
    *   **CTA (Spoken):** (Encourage viewers to try or learn more.)

Provide each ad type clearly separated.`

// BuildStrategyPrompt embeds the ranked ads as a numbered list in the analysis prompt.
func BuildStrategyPrompt(ranked []RankedAd, product Product) string {
	items := make([]string, len(ranked))
	for i, ad := range ranked {
		items[i] = fmt.Sprintf("%d. %s", i+1, ad.Text)
	}
	return fmt.Sprintf(strategyPromptTemplate,
		product.Category,
		len(ranked),
		strings.Join(items, "\n\n"),
		product.Brand,
	)
}

// BuildAdPrompt embeds the full strategy guide and product message in the
// ad generation prompt. The returned structure is requested, never parsed.
func BuildAdPrompt(guide, brand string, product Product) string {
	return fmt.Sprintf(adPromptTemplate,
		brand,
		product.Category,
		guide,
		product.CoreMessage,
	)
}
