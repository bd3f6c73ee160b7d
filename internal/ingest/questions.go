package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/childmind/mhdb/internal/ttl"
)

// quotedOption matches one "<number>=<quoted text>" response option,
// e.g. `0="Not at all"`.
var quotedOption = regexp.MustCompile(`[-+]?[0-9]+=".*?"`)

// Questions ingests the questions workbook: questionnaire items with
// their instructions and ordered response options.
//
// Worksheets: "questions" (index, question, instructions_preamble,
// instructions, response_options, index_response_type) and
// "response_types" (index, response_type).
func Questions(src *Sources, st *ttl.Store) error {
	wb, err := src.Workbook("questions")
	if err != nil {
		return err
	}
	ingestCommon(wb, st)

	questions, err := wb.Table("questions")
	if err != nil {
		return err
	}
	responseTypes, err := wb.Table("response_types")
	if err != nil {
		return err
	}

	for row := 0; row < questions.NumRows(); row++ {
		question := questions.Get(row, "question")
		if isNull(question) {
			continue
		}
		questionIRI := iri(question)

		st.AddIf(questionIRI, "a", ":Question")
		st.AddIf(questionIRI, "rdfs:label", langString(question))
		st.AddIf(questionIRI, ":hasQuestionText", langString(question))

		// Instructions and their preamble become nodes of their own so
		// questionnaires sharing instructions share statements.
		preamble := questions.Get(row, "instructions_preamble")
		if !isNull(preamble) {
			st.AddIf(questionIRI, ":hasInstructionsPreamble", iri(preamble))
			st.AddIf(iri(preamble), ":hasInstructionsPreambleText", langString(preamble))
		}
		instructions := questions.Get(row, "instructions")
		if !isNull(instructions) {
			st.AddIf(questionIRI, ":hasInstructions", iri(instructions))
			st.AddIf(iri(instructions), ":hasInstructionsText", langString(instructions))
		}

		if err := ingestResponseOptions(st, questionIRI, questions.Get(row, "response_options")); err != nil {
			return fmt.Errorf("questions row %d: %w", row+1, err)
		}

		// Response type lookup.
		if err := joinByIndex(st, questionIRI, ":hasResponseType",
			questions.Get(row, "index_response_type"),
			responseTypes, "response_type", ttl.Pascal); err != nil {
			return err
		}
	}
	return nil
}

// ingestResponseOptions turns a response-options cell into an rdf:Seq.
//
// The cell is either comma-separated ("0=Never,1=Sometimes") or, when
// option texts themselves contain commas, a run of quoted options
// (`0="Not at all",1="Several, most days"`). Each option becomes a
// sequence member rdf:_1, rdf:_2, ... pointing at a response node.
func ingestResponseOptions(st *ttl.Store, questionIRI, cell string) error {
	if isNull(cell) {
		return nil
	}

	cleaned := strings.Trim(cell, "-")
	cleaned = strings.ReplaceAll(cleaned, "\n", "")
	if isNull(cleaned) {
		return nil
	}
	seqIRI := iri(cleaned)

	var options []string
	if strings.Contains(cleaned, `"`) {
		options = quotedOption.FindAllString(cleaned, -1)
	} else {
		options = strings.Split(cleaned, ",")
	}

	st.AddIf(questionIRI, ":hasResponseOptions", seqIRI)
	st.AddIf(seqIRI, "a", "rdf:Seq")

	for i, option := range options {
		_, response, found := strings.Cut(option, "=")
		if !found {
			return fmt.Errorf("response option %q: missing '='", option)
		}
		response = strings.Trim(strings.TrimSpace(response), `"`)
		if isNull(response) {
			continue
		}
		responseIRI := iri(response)
		st.AddIf(responseIRI, ":hasResponseOptionText", langString(response))
		st.AddIf(seqIRI, fmt.Sprintf("rdf:_%d", i+1), responseIRI)
	}
	return nil
}
