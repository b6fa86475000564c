package canonical

import (
	"strings"
)

const instructionsHeader = "Here are the instructions that you should follow:\n"

// Prompt builds the adjudication prompt for a group of surface forms of label.
func Prompt(label string, names []string) string {
	input := strings.Join(names, "\n")

	switch strings.ToUpper(label) {
	case "PERSON", "PER":
		return personPrompt(input)
	case "ORG", "ORGANIZATION":
		return organizationPrompt(input)
	case "GPE", "LOC", "LOCATION":
		return locationPrompt(input)
	case "PROVISION":
		return provisionPrompt(input)
	case "LAW":
		return lawPrompt(input)
	default:
		return genericPrompt(input)
	}
}

func personPrompt(input string) string {
	return "You are an expert in data cleaning and entity resolution. Your task is to analyze a list of person names " +
		"and consolidate entries that refer to the same individual, even if there are minor variations due to typos, accents, or missing names.\n\n" +
		instructionsHeader +
		"\n - Identify names that refer to the same person." +
		"\n - Consider variations such as spelling differences, missing middle names, or presence of accents (e.g., \"Ali\" vs. \"Alí\")." +
		"\n - For each group of similar names, choose the most complete and accurate version as the representative name." +
		"\n - Prefer names that include full middle names over those that have initials or omit them." +
		"\n - Do not skip any entities in the output, return all the unique entities." +
		"\n - Do not make any additional explanations, just output the entities, each on its own line." +
		"\n\n\nHere are the names to process:\n\n### INPUT\n\n" + input + "\n\n\n### OUTPUT:"
}

func organizationPrompt(input string) string {
	return "You are an expert in data cleaning and entity resolution. Your task is to analyze a list of organization names " +
		"and consolidate entries that refer to the same organization, even if there are minor variations due to typos, abbreviations, or naming differences.\n\n" +
		instructionsHeader +
		"\n - Identify names that refer to the same organization." +
		"\n - Consider variations such as spelling differences, abbreviations, acronyms, or presence of special characters (e.g., \"IBM\" vs. \"I.B.M.\")." +
		"\n - For each group of similar names, choose the most complete and accurate version as the representative name." +
		"\n - Prefer official full names over abbreviations or colloquial versions." +
		"\n - Do not skip any entities in the output, return all the unique organization names." +
		"\n - Do not make any additional explanations, comments, or clarifications, just output the entities, each on its own line." +
		"\n\n\nHere are the names to process:\n\n### INPUT\n\n" + input + "\n\n\n### OUTPUT:"
}

func locationPrompt(input string) string {
	return "You are an expert in data cleaning and entity resolution. Your task is to analyze a list of location names " +
		"(countries, cities, regions, and other places) and consolidate entries that refer to the same place.\n\n" +
		instructionsHeader +
		"\n - Identify names that refer to the same location." +
		"\n - Consider variations such as spelling differences, accents, leading articles, or official and short forms (e.g., \"the Republic of Honduras\" vs. \"Honduras\")." +
		"\n - For each group of similar names, choose the most complete and accurate version as the representative name." +
		"\n - Do not merge places that are merely nested in each other, such as a city and its country." +
		"\n - Do not skip any entities in the output, return all the unique locations." +
		"\n - Do not make any additional explanations, just output the entities, each on its own line." +
		"\n\n\nHere are the names to process:\n\n### INPUT\n\n" + input + "\n\n\n### OUTPUT:"
}

func provisionPrompt(input string) string {
	return "You are an expert in data cleaning and entity resolution. Your task is to analyze a list of provisions (e.g., articles, sections, responses) " +
		"and extract individual provisions from compound entries. Some entries may list multiple provisions together, and your goal is to separate them into individual entries.\n\n" +
		instructionsHeader +
		"\n - Identify all individual provisions mentioned in each entry." +
		"\n - Separate compound entries into individual provisions. For example, \"Articles 1, 2, and 3\" should be split into \"Article 1\", \"Article 2\", and \"Article 3\"." +
		" For example, \"Article 10(1)(a) and (b)\" should be split into \"Article 10(1)(a)\" and \"Article 10(1)(b)\"." +
		"\n - Ensure that the provision type (e.g., Article, Section) is correctly associated with each number or letter." +
		"\n - Retain any subsection indicators such as numbers or letters in parentheses (e.g., \"Article 17(1)\")." +
		"\n - Normalize the provision type to singular form (e.g., \"Articles\" becomes \"Article\")." +
		"\n - Correct minor formatting issues, such as extra or missing parentheses. Do not talk about the fix." +
		"\n - Do not skip any provisions; return all individual provisions found in the input." +
		"\n - Do not make any additional explanations, comments, or clarifications; just output the list of individual provisions, each on its own line." +
		"\n\n\nHere are the provisions to process:\n\n### INPUT\n\n" + input + "\n\n### OUTPUT:"
}

func lawPrompt(input string) string {
	return "You are an expert in legal document analysis and data processing. Your task is to analyze a list of entities extracted from legal texts, " +
		"specifically focusing on laws, conventions, treaties, and similar documents (referred to as 'law entities'). " +
		"Your goal is to extract and consolidate the unique law entities, ensuring that variations referring to the same law are combined appropriately.\n\n" +
		"Here are the instructions you should follow:\n" +
		"\n - For any entity that includes a specific article, section, or clause (e.g., 'Article 29 of the French Convention'), extract only the name of the law (e.g., 'French Convention')." +
		"\n - Normalize the names by removing leading articles (e.g., 'the'), quotation marks, and unnecessary whitespace." +
		"\n - Consider variations in naming that refer to the same law as the same entity. For example, 'French Convention', 'the French Convention', and 'the “French Convention' all refer to 'French Convention'." +
		"\n - Consolidate these variations into a single, unique law entity." +
		"\n - Ensure that you extract only the names of the laws, conventions, or treaties, without including any articles or sections." +
		"\n - Do not make any additional explanations, comments, or clarifications; just output the list of individual laws, each on its own line." +
		"\n\n\nHere are the entities to process:\n\n### INPUT\n\n" + input + "\n\n### OUTPUT:"
}

func genericPrompt(input string) string {
	return "You are an expert in resolving named entities. Your task is to identify unique entities from a list of " +
		"similar names. Consider variations in spelling, abbreviations, and partial matches as potential indicators " +
		"of the same entity. Use the examples provided to guide your resolution process.\n\n" +
		"### EXAMPLE INPUT 1:\nAlfredo Francisco Brown\nAlfredo Brown Manister\nAlfredo Francisco Brown Manister\n\n" +
		"### EXAMPLE OUTPUT 1:\nAlfredo Francisco Brown Manister\n\n\n" +
		"### EXAMPLE INPUT 2:\nthe Asociación de Miskitos Hondureños de Buzos Lisiados\nthe Asociación de Misquitos Hondureños de Buzos Lisiados\n\n" +
		"### EXAMPLE OUTPUT 2:\nthe Asociación de Miskitos Hondureños de Buzos Lisiados\n\n\n" +
		"### EXAMPLE INPUT 3:\nJames Dave King\nJames Dwight Florence\n\n" +
		"### EXAMPLE OUTPUT 3:\nJames Dave King\nJames Dwight Florence\n\n\n" +
		instructionsHeader +
		"\n - Output one name per line for every distinct entity in the input." +
		"\n - For names that refer to the same entity, output only the most complete version." +
		"\n - Do not make any additional explanations, just output the entities." +
		"\n\n\n### INPUT:\n" + input + "\n\n### OUTPUT:"
}
