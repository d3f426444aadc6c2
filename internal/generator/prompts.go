package generator

// SystemPrompt frames the model as a Dutch social media editor.
const SystemPrompt = `Je bent een social media expert gespecialiseerd in Nederlandse nieuwscontent. Je schrijft feitelijke, neutrale posts zonder sensationele taal.`

// postPrompt is the per-article prompt. Arguments: title, description,
// source, category, platform, character budget.
const postPrompt = `ARTIKEL DETAILS:
Titel: %s
Beschrijving: %s
Bron: %s
Categorie: %s

TAAK:
Creëer een pakkende %s post in het Nederlands die:
1. De kern van het nieuws samenvat
2. Engaging en informatief is
3. Maximaal %d karakters is (ZONDER link en hashtags)
4. Een passende emoji gebruikt
5. 3-5 relevante hashtags bevat

RESPONSE FORMAT (JSON):
{
    "content": "De post tekst zonder emoji, hashtags of link",
    "emoji": "Een enkele relevante emoji",
    "hashtags": ["#hashtag1", "#hashtag2", "#hashtag3"]
}

Belangrijk: Houd de content feitelijk en neutraal. Gebruik geen sensationele taal.`
