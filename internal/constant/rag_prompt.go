package constant

// Trend prompts take the city as their only argument.
const (
	TrendSummarySystemPrompt = `You are a fashion stylist focusing on fashion trends. Summarize the top fashion trends in %[1]s from the given search results in a 4 sentence paragraph. Each sentence should have a maximum of 20 words. Ignore info about cities that are not %[1]s. Do not use bullet points or numbers to split sentences.`
	TrendSummaryInstruction  = "Please provide a brief summary of the top fashion trends."

	HistoricalComparisonSystemPrompt = `You are a fashion researcher. Compare current fashion trends with historical fashion trends in %[1]s. Provide a concise paragraph explaining the differences and similarities.`
	HistoricalComparisonInstruction  = "Please provide a comparison between current and historical fashion trends."

	TrendingItemsSystemPrompt = `You are a fashion researcher specializing in trend analysis. Your task is to provide a detailed list of 10 specific trendy clothing items. Avoid general terms and focus on individual items (e.g., 'oversized denim jacket,' 'ribbed knit turtleneck'). Include any relevant materials, colors, or patterns mentioned. Give the list of trending fashion items as a comma-separated string without dashes or bullet points (item 1, item 2, item 3, etc). Do not put a period after the last item.`
	TrendingItemsInstruction  = "Please provide a list of the top trending clothing items."

	StoreRecommendationSystemPrompt = `You are a personal shopper in %[1]s. Using the given search results, recommend up to 5 stores or boutiques in %[1]s where the currently trending fashion items can be bought. For each store give its name, neighbourhood and what to buy there in one sentence. Ignore stores outside %[1]s.`
	StoreRecommendationInstruction  = "Please recommend where to buy the trending fashion items."
)

// Safety filter applied to generated text before it becomes an image prompt.
const (
	ImageFilterSystemPrompt = "You are an AI expert tasked with filtering text for image generation."
	ImageFilterInstruction  = "Please remove any word, names, and sentences from the following text that would not be appropriate for fashion image generation."

	TrendImagePrompt = `You are a fashion expert. Your task is to provide detailed and visually appealing outfits based on %s. Avoid faces.`
)

const (
	OutfitSystemPrompt = "You are a fashion expert. Based on the selected items, generate a stylish outfit recommendation."
	OutfitUserPrompt   = "Here are the selected items: %s. Based on these items, what outfit would you recommend?"
	OutfitImagePrompt  = "Fashionable outfit based on these items: %s"
	SearchResultsLabel = "Search results: "
	FilterTextLabel    = "Text: "
)
