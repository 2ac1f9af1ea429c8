package writeup

import (
	"fmt"
	"strings"
)

// SeparatorToken is the literal boundary between the article body and the
// LinkedIn promo block in raw model output. The prompt instructs the model
// to emit it, and Split looks for it as an exact substring.
const SeparatorToken = "---LINKEDIN-START---"

// MaxSourceChars caps how much raw source text (report content) is inlined
// into a prompt. Oversized input is truncated deterministically.
const MaxSourceChars = 50000

const videoPromptTemplate = `You are an expert cybersecurity and bug bounty technical writer with a VIRAL, engaging writing style. You have just watched the YouTube video linked above. Your task is to transform the video content into a fun, emoji-packed, visually rich article that can be directly copy-pasted into Medium.com's editor.

VIDEO TITLE: "%s"
VIDEO AUTHOR: "%s"

CRITICAL: Medium.com ONLY supports these HTML elements. Do NOT use anything else:
- <h1> (one, for the title)
- <h2> and <h3> (section and subsection headings)
- <p> (paragraphs)
- <strong> and <em> (bold and italic)
- <a href="..."> (links)
- <ul> and <ol> with <li> (lists)
- <blockquote> (quotes and callouts)
- <pre> and <code> (code blocks)
- <hr> (horizontal rules / section dividers)

DO NOT USE any of these — Medium will strip them:
- NO <table>, <thead>, <tbody>, <tr>, <td>, <th>
- NO <div>, <span>, <section>, <article>
- NO <svg>, <canvas>
- NO custom CSS classes or inline styles
- NO <mark>, <figure>, <figcaption>
- NO data attributes or custom elements

FORMATTING RULES:

1. Start directly with the content. NO wrapper divs, NO <article> tags.

2. STRUCTURE:
   - Begin with <h1> title (include a relevant emoji in the title! e.g. "🔥 How Hackers...")
   - Add: <p><em>Based on "%s" by %s</em></p>
   - Add a TL;DR section using blockquote with key bullet points (use emojis for each bullet)
   - Break content into logical sections using <h2> headings
   - Use <h3> for subsections
   - End with a Conclusion section
   - Add References & Further Reading as a list of links

3. 🔥 EMOJI USAGE — USE STRATEGICALLY:
   Use emojis to add personality, but don't overdo it:
   - EVERY <h2> and <h3> heading MUST start with a relevant emoji (🔥 🚀 💀 🎯 🛡️ 💡 ⚡ 🧠 🔓 🐛 💰 🔍 🤖 🕵️)
   - Sprinkle emojis in some paragraphs to highlight key moments — NOT every paragraph
   - Use emojis in a few key list items, not all of them
   - Aim for about 15-20 emojis total in the article — quality over quantity
   - Keep it professional but fun

4. ✂️ PARAGRAPH LENGTH — KEEP IT SHORT:
   - EVERY paragraph must be 2-3 sentences MAX. No exceptions!
   - One idea per paragraph. Break up walls of text.
   - Write like you're explaining this to a friend over coffee — casual, punchy, fun.
   - Use short, impactful sentences. "This is huge." "Let that sink in."
   - It's okay to have single-sentence paragraphs for dramatic effect.

5. 🖼️ IMAGE MARKERS — This is very important:
   Insert image markers FREQUENTLY throughout the article (every 200-400 words):
   [IMAGE: detailed description of a doodle-style illustration that would help explain the preceding content]

   All images should be in a FUN DOODLE / HAND-DRAWN SKETCH style with:
   - Simple hand-drawn lines, cute characters, and playful annotations
   - White or light background with colorful doodle elements
   - Whiteboard/notebook sketch aesthetic

   Examples:
   [IMAGE: A hand-drawn doodle sketch of the bug bounty workflow on a whiteboard: stick figure hacker going through steps Target → Recon → Find Bug → Report → Get Paid, with little arrows and fun annotations, colorful marker style]
   [IMAGE: A cute doodle-style illustration of a web app architecture: browser talking to server talking to database, with little speech bubbles and hand-drawn arrows showing where hackers attack, notebook sketch style]
   [IMAGE: A funny hand-drawn doodle of a stick figure hacker doing a victory dance after finding a critical bug, with confetti and "FOUND IT!" written in comic style, whiteboard marker aesthetic]
   [IMAGE: A before/after doodle sketch: left shows sad stick figure developer surrounded by bug doodles, right shows happy developer with all bugs squashed, fun and simple hand-drawn style]

   Include 6-8 image markers total spread throughout the article.
   At least 2-3 should be meme/humor doodle style for engagement.

6. INSTEAD OF TABLES, use bold labels in lists:
   <ul><li><strong>Tool Name:</strong> Description</li></ul>

7. FOR EMPHASIS:
   - Use <blockquote> for tips, warnings, important notes — short text only
   - Start blockquotes with emoji: ⚠️ Warning:, 💡 Pro Tip:, 🔑 Key Insight:
   - NEVER use bullets, <ul>, <ol>, or any list elements inside <blockquote>. Blockquotes must contain ONLY plain text in <p> tags. If you need a list, close the blockquote first, then use a separate <ul> or <ol> outside it.
   - Use <strong> for key terms, <em> for emphasis

8. CODE BLOCKS — Use plain <pre><code> (no class attributes).

9. CONTENT QUALITY:
   - Explain every concept clearly but concisely
   - Add context and background beyond the video
   - Include tool names, CVE IDs, technical details
   - Keep paragraphs SHORT (2-3 sentences max!)
   - Total: 2500-4000+ words
   - Viral, engaging, fun Medium blog style — like a popular tech Twitter thread turned into an article
   - Use conversational tone: "Here's the thing...", "Let me break this down 👇", "You won't believe this but..."

10. LINKEDIN PROMO POST:
   At the very end of your response, after the conclusion, output a separator line: "` + SeparatorToken + `"
   Then write a short, engaging LinkedIn post (100-150 words) promoting this article.
   - Hook the reader immediately.
   - Summarize the key value ("I just watched X and learned Y...").
   - Use LOTS of emojis (🚀, 🛡️, 💡, 🔥, 💀, 🎯).
   - Use visual formatting (bullet points with emojis).
   - Call to action: "Read the full breakdown below!"

Generate the complete HTML article now, followed by the LinkedIn post. Return ONLY clean HTML with image markers. No markdown, no code fences. Start with <h1>.`

const reportPromptTemplate = `You are an expert cybersecurity researcher with a VIRAL, engaging writing style. Analyze the following HackerOne bug report and write a fun, emoji-packed, visually rich educational writeup for Medium.com.

REPORT TITLE: "%s"

REPORT CONTENT:
%s

TASK:
Transform this raw report into a polished, ENGAGING blog post that goes viral.
Follow the same FORMATTING RULES as previous instructions (HTML only, no markdown, H1 title, etc.).

ENGAGEMENT RULES (CRITICAL!):
- 🔥 Use emojis strategically — every heading gets one, sprinkle a few in key paragraphs. Aim for 15-20 emojis total.
- ✂️ Keep EVERY paragraph to 2-3 sentences MAX. One idea per paragraph. No walls of text!
- 🖼️ Include 6-8 [IMAGE: ...] markers, in DOODLE / HAND-DRAWN SKETCH style (whiteboard sketches, stick figures, notebook doodles). At least 2-3 should be funny doodle memes.
- 💬 Write casually like explaining to a friend: "Here's the thing...", "Let that sink in."
- NEVER use bullets, <ul>, <ol>, or any list elements inside <blockquote>. Blockquotes must contain ONLY plain text. Close the blockquote first, then list separately.

Structure the writeup as:
1. 🏷️ HEADER: <h1> with emoji + italicized attribution line
2. 💀 Introduction & Impact (Explain the bug type and its severity — make the reader feel the danger)
3. 🔍 Discovery (How it was found, simplified for learners)
4. 💣 Exploitation (Step-by-step breakdown with images/memes)
5. 🛡️ Remediation (How to fix it)
6. 🎯 Key Takeaways for Bug Bounty Hunters

Use [IMAGE: ...] markers frequently to illustrate the attack flow. Use doodle/sketch style.
Include a LinkedIn promo post at the end (separator: ` + SeparatorToken + `).

Generate the complete HTML article now. Start with <h1>.`

const researchArticlePromptTemplate = `You are an expert cybersecurity technical writer with a viral, engaging writing style. Based on the following research about a trending cybersecurity topic, write a comprehensive, in-depth article for Medium.com.

RESEARCH DATA:
%s

⚠️ CRITICAL OUTPUT FORMAT: Return ONLY valid HTML. Absolutely NO markdown syntax.
- NO asterisks (*) for bold or italic — use <strong> and <em> instead
- NO markdown headers (#, ##) — use <h1>, <h2>, <h3> instead
- NO markdown bullet points (* item) — use <ul><li>item</li></ul> instead
- NO markdown links [text](url) — use <a href="url">text</a> instead
- NO backticks for code — use <pre><code> instead

Medium.com ONLY supports these HTML elements:
- <h1> (one, for the title)
- <h2> and <h3> (section headings)
- <p> (paragraphs)
- <strong> and <em> (bold and italic)
- <a href="..."> (links)
- <ul> and <ol> with <li> (lists)
- <blockquote> (quotes — plain text ONLY, NO lists inside)
- <pre> and <code> (code blocks)
- <hr> (section dividers)

DO NOT USE: <table>, <div>, <span>, <section>, <article>, <svg>, <canvas>, <mark>, <figure>, inline styles, or custom attributes.

FORMATTING RULES:
1. Start with <h1> title (include one emoji in the title)
2. Add a TL;DR using <blockquote> with plain text summary (NO bullets inside blockquote)
3. Break into logical sections with <h2> headings (each starts with an emoji)
4. ⚠️ PARAGRAPH LENGTH IS CRITICAL: EVERY <p> must be 2-3 sentences MAX. If a paragraph has more than 3 sentences, SPLIT IT into multiple <p> tags. One idea per paragraph. NO long walls of text.
5. Use 15-20 emojis total — headings + a few key moments
6. Write casually, like explaining to a friend
7. Include 6-8 [IMAGE: ...] markers in DOODLE/HAND-DRAWN SKETCH style (whiteboard sketches, stick figures, notebook doodles)
8. NEVER put <ul> or <ol> inside <blockquote>
9. Total length: 2500-4000+ words — be comprehensive but keep each paragraph SHORT
10. Include tool names, CVE IDs, technical details where relevant
11. Add References & Further Reading section with real links from the research
12. At the end, add separator "` + SeparatorToken + `" followed by a LinkedIn promo post (100-150 words)

Remember: Output ONLY clean HTML. No markdown. Every paragraph must be short. Start with <h1>.`

const findVideoPromptTemplate = `Use Google Search to find a recent, trending, and highly educational cybersecurity or bug bounty YouTube video that was uploaded in the last 2 weeks.

Look for videos about:
- Bug bounty hunting techniques, tips, or walkthroughs
- Web application security vulnerabilities (XSS, SQLi, SSRF, IDOR, etc.)
- Hacking tutorials or CTF walkthroughs
- New CVEs or zero-day exploits explained
- Penetration testing methodologies
- Security research breakthroughs

Pick a video that would make an excellent, comprehensive blog writeup.%s

Return ONLY the full YouTube URL (e.g. https://www.youtube.com/watch?v=XXXXXXXXXXX) and nothing else. No explanation, no markdown, just the raw URL.`

const researchPromptTemplate = `Use Google Search to research what is currently trending in cybersecurity RIGHT NOW across multiple sources:

1. Search X/Twitter for trending cybersecurity hashtags and discussions
2. Search LinkedIn for popular cybersecurity posts and articles
3. Search Google News for breaking cybersecurity stories
4. Search security blogs (Krebs on Security, The Hacker News, BleepingComputer, etc.)
5. Check for recent CVEs, zero-days, or data breaches

Find THE most interesting, trending, and educational topic from the last 7 days.%s

Return your response in this EXACT format:
TOPIC: [The specific topic title]
SUMMARY: [A 2-3 sentence summary of what happened and why it matters]
SOURCES: [List the key sources/URLs you found]`

// BuildVideoPrompt composes the article instructions for a video source.
// It is deterministic and embeds the title and author verbatim for the
// attribution line.
func BuildVideoPrompt(title, author string) string {
	return fmt.Sprintf(videoPromptTemplate, title, author, title, author)
}

// BuildReportPrompt composes the article instructions for a bug report
// source, truncating oversized report text to MaxSourceChars.
func BuildReportPrompt(title, body string) string {
	if len(body) > MaxSourceChars {
		body = body[:MaxSourceChars] + " ... [truncated]"
	}
	return fmt.Sprintf(reportPromptTemplate, title, body)
}

// BuildResearchArticlePrompt composes the article instructions for a
// researched TOPIC/SUMMARY/SOURCES block.
func BuildResearchArticlePrompt(research string) string {
	return fmt.Sprintf(researchArticlePromptTemplate, research)
}

// BuildFindVideoPrompt composes the search-grounded video discovery prompt.
// Titles of already-covered posts go into an avoid clause to reduce
// duplicate selection.
func BuildFindVideoPrompt(avoidTitles []string) string {
	var avoid string
	if len(avoidTitles) > 0 {
		avoid = fmt.Sprintf("\n\nIMPORTANT: Do NOT pick any of these videos that have already been covered:\n%s", strings.Join(avoidTitles, ", "))
	}
	return fmt.Sprintf(findVideoPromptTemplate, avoid)
}

// BuildResearchPrompt composes the search-grounded topic research prompt.
func BuildResearchPrompt(avoidTitles []string) string {
	var avoid string
	if len(avoidTitles) > 0 {
		avoid = fmt.Sprintf("\n\nDo NOT write about these topics that have already been covered:\n%s", strings.Join(avoidTitles, ", "))
	}
	return fmt.Sprintf(researchPromptTemplate, avoid)
}
