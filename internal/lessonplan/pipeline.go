package lessonplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/lessonforge/backend/internal/generator"
	"github.com/lessonforge/backend/internal/models"
	"github.com/lessonforge/backend/internal/resources"
)

// ResourceFinder is the resource-lookup capability the pipeline consumes.
type ResourceFinder interface {
	FindResources(ctx context.Context, ref resources.Lookup) ([]string, error)
}

// decision is the outcome of the review feedback edge.
type decision int

const (
	decisionApprove decision = iota
	decisionRevise
)

// Pipeline runs one lesson-plan generation request through the staged
// workflow: prompt assembly, outline, per-lecture detail expansion with
// quiz/assignment and resource enrichment, review, and the bounded
// revision loop.
type Pipeline struct {
	llm        generator.Client
	finder     ResourceFinder
	reviewer   *Reviewer
	planSchema *generator.Schema
}

func NewPipeline(llm generator.Client, finder ResourceFinder) *Pipeline {
	return &Pipeline{
		llm:        llm,
		finder:     finder,
		reviewer:   NewReviewer(llm),
		planSchema: generator.DetailedLessonPlanSchema(),
	}
}

// Run drives the state machine to completion. A failure before any
// lecture artifact exists (outline stage) is returned as an error; later
// failures degrade to inline error artifacts or fallback verdicts so a
// single failing unit never discards the rest of the run.
func (p *Pipeline) Run(ctx context.Context, st *PipelineState) error {
	for st.Stage != StageDone {
		switch st.Stage {
		case StagePrompt:
			st.UserPrompt = BuildOutlineUserPrompt(st)
			st.Stage = StageOutline

		case StageOutline:
			if err := p.generateOutline(ctx, st); err != nil {
				return err
			}
			st.Stage = StageExpand

		case StageExpand:
			p.expandLectures(ctx, st)
			st.Stage = StageReview

		case StageReview:
			p.review(ctx, st)
			if p.decide(st) == decisionRevise {
				log.Printf("Revision needed, revision count: %d", st.RevisionCount)
				st.Stage = StageExpand
			} else {
				st.Stage = StageDone
			}
		}
	}
	return nil
}

func (p *Pipeline) generateOutline(ctx context.Context, st *PipelineState) error {
	reply, err := p.llm.Complete(ctx, OutlineSystemPrompt(), st.UserPrompt)
	if err != nil {
		return fmt.Errorf("outline stage: %w", err)
	}

	st.Outline = ParseOutline(reply)
	if len(st.Outline) < st.Request.LectureCount {
		log.Printf("WARNING: outline produced %d blocks for %d requested lectures", len(st.Outline), st.Request.LectureCount)
	}
	return nil
}

// outlineBlock returns the outline for a 1-based lecture index. Lectures
// beyond the available blocks get an empty outline rather than an index
// fault; the model then expands from the chapter content alone.
func (st *PipelineState) outlineBlock(lecture int) OutlineBlock {
	if idx := lecture - 1; idx < len(st.Outline) {
		return st.Outline[idx]
	}
	return OutlineBlock{}
}

func (p *Pipeline) expandLectures(ctx context.Context, st *PipelineState) {
	// A revision regenerates every lecture, so the accumulators reset.
	st.Artifacts = nil
	st.TextArtifact = ""

	for lecture := 1; lecture <= st.Request.LectureCount; lecture++ {
		st.CurrentLecture = lecture
		block := st.outlineBlock(lecture)

		if st.Request.StructuredOutput {
			st.Artifacts = append(st.Artifacts, p.expandStructured(ctx, st, lecture, block))
		} else {
			text := p.expandFreeText(ctx, st, lecture, block)
			if st.TextArtifact == "" {
				st.TextArtifact = text
			} else {
				st.TextArtifact = st.TextArtifact + "\n\n" + text
			}
		}
	}
}

func (p *Pipeline) expandStructured(ctx context.Context, st *PipelineState, lecture int, block OutlineBlock) models.DetailedLessonPlan {
	prompt := BuildDetailUserPrompt(st, lecture, block.Text)

	raw, err := p.llm.CompleteStructured(ctx, DetailedSystemPrompt(), prompt, p.planSchema)
	if err != nil {
		log.Printf("WARNING: lecture %d generation failed: %v", lecture, err)
		return models.DetailedLessonPlan{Error: err.Error()}
	}

	var plan models.DetailedLessonPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		log.Printf("WARNING: lecture %d decode failed: %v", lecture, err)
		return models.DetailedLessonPlan{Error: fmt.Sprintf("decode lesson plan: %v", err)}
	}

	if quiz := p.quizAssignment(ctx, st, lecture, FormatForReview(plan)); quiz != "" {
		plan.QuizAssignment = quiz
	}
	if links := p.lookupResources(ctx, st, block.Topic); len(links) > 0 {
		plan.WebResources = links
	}
	return plan
}

func (p *Pipeline) expandFreeText(ctx context.Context, st *PipelineState, lecture int, block OutlineBlock) string {
	prompt := BuildDetailUserPrompt(st, lecture, block.Text)

	text, err := p.llm.Complete(ctx, DetailedFreeTextSystemPrompt(), prompt)
	if err != nil {
		log.Printf("WARNING: lecture %d generation failed: %v", lecture, err)
		return fmt.Sprintf("error: lecture %d could not be generated: %v", lecture, err)
	}

	if quiz := p.quizAssignment(ctx, st, lecture, text); quiz != "" {
		text = text + "\n\n" + quiz
	}
	if links := p.lookupResources(ctx, st, block.Topic); len(links) > 0 {
		for _, link := range links {
			text = text + "\n" + link
		}
	}
	return text
}

// quizAssignment generates the optional quiz/assignment block for one
// lecture. A failure here degrades to a missing block, not a failed run.
func (p *Pipeline) quizAssignment(ctx context.Context, st *PipelineState, lecture int, lessonPlan string) string {
	if !st.Request.Quiz && !st.Request.Assignment {
		return ""
	}

	quiz, err := p.llm.Complete(ctx, QuizAssignmentSystemPrompt(), BuildQuizUserPrompt(st, lecture, lessonPlan))
	if err != nil {
		log.Printf("WARNING: quiz/assignment for lecture %d failed: %v", lecture, err)
		return ""
	}
	return quiz
}

func (p *Pipeline) lookupResources(ctx context.Context, st *PipelineState, topic string) []string {
	if p.finder == nil {
		return nil
	}

	links, err := p.finder.FindResources(ctx, resources.Lookup{
		Board:         st.Request.Board,
		Grade:         st.Request.Grade,
		Subject:       st.Request.Subject,
		ChapterName:   st.ChapterName,
		ChapterNumber: st.Request.ChapterNumber,
		Topic:         topic,
	})
	if err != nil {
		if errors.Is(err, resources.ErrMisconfigured) {
			log.Println("WARNING: resource lookup misconfigured, skipping web resources")
		} else {
			log.Printf("WARNING: resource lookup failed: %v", err)
		}
		return nil
	}
	return links
}

// review runs the review stage unless the latch says this artifact was
// already reviewed. A failed review resolves to the pipeline fallback
// verdict so the otherwise-complete lesson plan is still returned.
func (p *Pipeline) review(ctx context.Context, st *PipelineState) {
	if st.ReviewCompleted {
		return
	}

	verdict, err := p.reviewer.Review(ctx, st.ArtifactData(), st.Request.Grade, st.Request.Subject, st.Request.Language)
	if err != nil {
		log.Printf("WARNING: review stage failed: %v", err)
		v := PipelineFallbackVerdict()
		st.Verdict = &v
		return
	}
	st.Verdict = verdict
}

// decide resolves the feedback edge. The latch gates repeat review: once
// a verdict has been consumed for this run's artifact, re-entry always
// approves regardless of the verdict content.
func (p *Pipeline) decide(st *PipelineState) decision {
	if st.ReviewCompleted {
		return decisionApprove
	}
	st.ReviewCompleted = true

	if st.Verdict == nil {
		return decisionApprove
	}

	if ShouldRevise(*st.Verdict, MaxRevisions, st.RevisionCount) {
		st.RevisionCount++
		return decisionRevise
	}
	return decisionApprove
}
