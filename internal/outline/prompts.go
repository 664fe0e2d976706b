package outline

// SystemPrompt frames every outline-stage call.
const SystemPrompt = `You are an experienced book editor planning non-fiction and fiction manuscripts. You follow formatting instructions exactly and never add commentary around your output.`

// DraftPrompt asks for the initial outline.
// Args: chapter count, topic, genre, audience, style, tone.
const DraftPrompt = `Create a book outline with exactly %d chapters.

Topic: %s
Genre: %s
Target audience: %s
Writing style: %s
Tone: %s

Format requirements (strict):
- Start with a short title line and 2-3 sentences on the book's themes.
- Then one line per chapter in the exact form "Chapter N: Title".
- Number chapters sequentially starting at 1.
- After each chapter line, add 1-2 plain sentences summarizing that chapter.
- No markdown, no bullet points, no extra commentary.`

// ReviewPrompt asks for a proofread pass over the draft outline.
// Args: the outline text.
const ReviewPrompt = `Review the following book outline for coherence, flow between chapters, and coverage of the topic. Improve the chapter summaries where needed.

You MUST keep every "Chapter N: Title" line with its number and title exactly as given. Return the full outline in the same format, nothing else.

%s`

// PolishPrompt asks for the final-draft pass.
// Args: the outline text.
const PolishPrompt = `Produce the final version of this book outline. Tighten the language of the front matter and summaries.

You MUST keep every "Chapter N: Title" line with its number and title exactly as given. Return the full outline in the same format, nothing else.

%s`
