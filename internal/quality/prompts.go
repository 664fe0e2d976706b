package quality

// AssessSystemPrompt frames the originality assessment call.
const AssessSystemPrompt = `You are a strict plagiarism and originality reviewer for book manuscripts. You answer only in the exact labeled-field format requested.`

// AssessPrompt asks for the originality assessment of chapter text.
// Args: chapter number, chapter text.
const AssessPrompt = `Assess the originality of the following chapter text (Chapter %d). Consider derivative phrasing, cliched structure, and passages that could plausibly match existing published work.

Respond in EXACTLY this format and nothing else:
ORIGINALITY_SCORE: <1-10>
PLAGIARISM_RISK: <LOW|MEDIUM|HIGH>
COPYRIGHT_RISK: <LOW|MEDIUM|HIGH>
ISSUES_FOUND: <one paragraph describing specific problems, or "none">

Chapter text:
%s`

// RewriteSystemPrompt frames the rewrite call.
const RewriteSystemPrompt = `You are a professional book author revising your own work. You output only the rewritten chapter prose, with no headings, notes, or commentary.`

// RewritePrompt asks for a more original version of flagged chapter text.
// Args: chapter number, assessment issues, chapter text.
const RewritePrompt = `Rewrite Chapter %d below to be substantially more original while preserving its structure, key points, and approximate length.

The originality review found these problems:
%s

Address every problem. Do not shorten the chapter. Output only the rewritten prose.

Chapter text:
%s`
