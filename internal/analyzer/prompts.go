package analyzer

const systemPrompt = `You are a helpful AI that builds user personas.`

const personaPrompt = `Analyze the following Reddit user's posts and comments to create a detailed user persona.
Include sections like:
- Summary/Bio
- Interests
- Preferred Subreddits
- Writing Style
- Personality Traits
- Opinions (political/social if any)
- Any noticeable patterns

Cite relevant text snippets with subreddit and URL where possible.

TEXT:
%s
`
