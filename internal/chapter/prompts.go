package chapter

// SystemPrompt frames every chapter generation call.
const SystemPrompt = `You are a professional book author. You write polished long-form prose and output only the requested chapter text, with no headings, notes, or commentary.`

// DraftPrompt asks for the initial chapter text.
// Args: chapter number, title, summary, min words, max words, style, tone,
// outline text, prior chapter context.
const DraftPrompt = `Write Chapter %d, titled "%s", of the book planned below.

Chapter summary: %s

Requirements:
- Between %d and %d words.
- Writing style: %s. Tone: %s.
- Continue naturally from the earlier chapters; do not repeat them.
- Output prose only: no chapter heading, no notes, no markdown.

Book outline:
%s
%s`

// ContinuationPrompt asks for more text extending an underlength chapter.
// Args: chapter number, title, words still needed, existing text.
const ContinuationPrompt = `The text below is the current draft of Chapter %d, "%s". It is too short: it needs roughly %d more words.

Continue the chapter from where it stops. Do not repeat or summarize the existing text, do not restart the chapter, and output only the new continuation prose.

Current draft:
%s`
