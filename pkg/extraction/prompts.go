package extraction

// The two prompts below drive the ingest pipeline: the organizer turns a raw
// spoken transcript into a sectioned family biography, the extractor turns
// the same transcript into the structured document the archive normalizes
// into tables.

const organizerSystemPrompt = `You are a thoughtful archivist that organizes real spoken life stories into clear, readable sections that reflect the person's journey.`

const organizerPromptTemplate = `### Your task:

### Your ONLY output:
A **single organized biography** with section headers.
DO NOT repeat, rewrite, or include the transcript in raw form.
DO NOT output anything before or after the biography.

Organize the following transcript into a structured family biography written in a warm but factual tone.
Focus on clarity, chronological flow, and emotional truth. Use section headers that best describe the
actual content (for example "Childhood Memories", "Moving Abroad", "Raising a Family", "Faith and
Community", "Reflections"). Add historical or cultural context where relevant (local traditions, global
events, immigration era). Preserve personal quotes or expressions exactly as spoken. Include small
reflections that connect past and present generations. Avoid exaggeration; keep it natural and
documentary-style, suitable for a family history archive.

### Instructions:
1. Identify logical story sections and choose headings that best describe the actual content.
2. Summarize what was said in each section in clear paragraphs. Keep it personal and emotional where
   appropriate. Preserve cultural details, names, and places. Merge overlapping or repeated ideas into
   one coherent section.
3. Maintain chronological flow, from earliest memories to later reflections.

### Transcript:
%s`

const extractorSystemPrompt = `You are an information extraction system for life story archiving.`

const extractorPromptTemplate = `Your job is to convert a raw life story transcript into a structured JSON object optimized for:
- Timeline visualization (chronological events with dates)
- Family tree construction (relationships and family members)
- Data storage and retrieval (key facts and metadata)

CRITICAL RULES:
- DO NOT add anything that is not stated or logically implied in the transcript
- If dates are missing, infer approximate years from context clues (e.g., "when I was 12", "in the 1960s")
- Use null for unknown dates/years, not guesses
- Keep all text concise and factual
- All output MUST be valid JSON only (no markdown, no explanations)

Extract the following structured data:

1. "summary": A 2-3 sentence summary of the life story.

2. "person_info": Basic information about the main person (the storyteller):
   {"name": String or null, "birth_year": Integer or null, "birth_place": String or null, "death_year": Integer or null}

3. "timeline_events": Chronological list of ONLY the most significant and note-worthy events.
   INCLUDE major life transitions (birth, immigration, marriage, death), significant achievements,
   important family events, major moves, historical or cultural milestones that affected the person.
   EXCLUDE routine or minor events, vague memories without clear dates or importance.
   Each event: {"year": Integer or null, "event": String, "description": String, "location": String or null,
   "category": String (e.g., "birth", "immigration", "marriage", "education", "career", "family", "milestone")}

4. "family_members": People mentioned with their relationships (for family tree).
   Each person: {"name": String, "relationship": String, "birth_year": Integer or null,
   "death_year": Integer or null, "notes": String or null}

5. "locations": Places where the person lived or spent significant time.
   Each location: {"place": String, "start_year": Integer or null, "end_year": Integer or null,
   "purpose": String or null}

6. "occupations": Career or work history (if mentioned).
   Each occupation: {"role": String, "start_year": Integer or null, "end_year": Integer or null,
   "location": String or null}

7. "themes": Key themes or topics for searchability.
   Array of strings (e.g., ["immigration", "family", "education", "resilience", "faith", "community"])

OUTPUT REQUIREMENTS:
- Return ONLY valid JSON (no markdown, no code blocks, no explanations)
- Use null for missing/unknown values
- Use empty arrays [] if a section has no data

Here is the raw life story transcript:
%s`
