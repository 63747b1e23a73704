package assistant_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/pitchdeskco/pitchdesk/pkg/assistant"
	"github.com/pitchdeskco/pitchdesk/pkg/chat"
	"github.com/pitchdeskco/pitchdesk/pkg/gateway"
	"github.com/pitchdeskco/pitchdesk/pkg/persona"
	"github.com/pitchdeskco/pitchdesk/pkg/storage"
)

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		dummy    *gateway.Dummy
		recorder *storage.MemoryRecorder
		svc      *assistant.Service
		sess     *chat.Session
		catalog  *persona.Catalog
	)

	const sessionID = "test-session"

	BeforeEach(func() {
		ctx = context.Background()
		dummy = &gateway.Dummy{Reply: "canned reply"}
		recorder = storage.NewMemoryRecorder()
		catalog = persona.DefaultCatalog()
		svc = assistant.New(catalog, dummy, recorder, nil, zap.NewNop())
		sess = chat.NewSession()
	})

	Context("a plain text turn", func() {
		It("appends the user and assistant messages", func() {
			result, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona: "General Assistant",
				Prompt:  "explain CTR",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.User.Content).To(Equal("explain CTR"))
			Expect(result.Assistant.Content).To(Equal("canned reply"))
			Expect(sess.Len()).To(Equal(2))
		})

		It("assembles instruction plus history for the gateway", func() {
			p, _ := catalog.Get("Ad Copy Generator")

			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona: "Ad Copy Generator",
				Prompt:  "headline for eco bottles",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(dummy.TextCalls).To(HaveLen(1))
			Expect(dummy.TextCalls[0].Text).To(Equal(
				p.Instruction + "\nuser: headline for eco bottles"))
		})

		It("mirrors both messages to the recorder", func() {
			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona: "General Assistant",
				Prompt:  "hi",
			})
			Expect(err).NotTo(HaveOccurred())

			history, err := recorder.History(ctx, sessionID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[0].Role).To(Equal(chat.RoleUser))
			Expect(history[1].Role).To(Equal(chat.RoleAssistant))
		})
	})

	Context("a turn with a document attachment", func() {
		It("folds extracted text into the user message content", func() {
			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona:  "General Assistant",
				Prompt:   "what does this do?",
				FileName: "notes.sql",
				FileData: []byte("SELECT 1;"),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(sess.Messages()[0].Content).To(Equal(
				"Context from file 'notes.sql':\n---\nSELECT 1;\n---\nUser's question: what does this do?"))
		})

		It("folds the unsupported-type string for unknown extensions", func() {
			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona:  "General Assistant",
				Prompt:   "summarize",
				FileName: "notes.txt",
				FileData: []byte("plain"),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(sess.Messages()[0].Content).To(ContainSubstring(
				"Unsupported file type for text extraction."))
		})

		It("folds the extraction error string for corrupt files", func() {
			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona:  "General Assistant",
				Prompt:   "summarize",
				FileName: "broken.docx",
				FileData: []byte("not a zip"),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(sess.Messages()[0].Content).To(ContainSubstring("Error extracting text:"))
		})
	})

	Context("a turn with an image attachment", func() {
		It("keeps the raw prompt and leads the payload with the image", func() {
			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona:  "General Assistant",
				Prompt:   "what is in this picture",
				FileName: "photo.png",
				FileData: []byte{0x89, 0x50, 0x4e, 0x47},
			})
			Expect(err).NotTo(HaveOccurred())

			userMsg := sess.Messages()[0]
			Expect(userMsg.Content).To(Equal("what is in this picture"))
			Expect(userMsg.Image).NotTo(BeNil())
			Expect(userMsg.Image.MIME).To(Equal("image/png"))

			Expect(dummy.TextCalls).To(HaveLen(1))
			Expect(dummy.TextCalls[0].Image).To(BeIdenticalTo(userMsg.Image))
			Expect(dummy.TextCalls[0].Text).To(HavePrefix("You are an expert helpful digital marketing assistant"))
		})
	})

	Context("a turn with an audio attachment", func() {
		It("folds a filename note instead of transcribing", func() {
			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona:  "General Assistant",
				Prompt:   "what was said",
				FileName: "voice.wav",
				FileData: []byte{0x52, 0x49, 0x46, 0x46},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(sess.Messages()[0].Content).To(Equal("[Audio file: voice.wav] what was said"))
		})
	})

	Context("an image-generation turn", func() {
		BeforeEach(func() {
			dummy.Image = &chat.ImagePayload{Data: []byte{1, 2, 3}, MIME: "image/png"}
		})

		It("sends only the raw prompt to the image endpoint", func() {
			result, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona: "Image Generator",
				Prompt:  "a red bottle on a beach",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(dummy.ImageCalls).To(Equal([]string{"a red bottle on a beach"}))
			Expect(dummy.TextCalls).To(BeEmpty())
			Expect(result.Assistant.GeneratedImage).NotTo(BeNil())
			Expect(result.Assistant.Content).To(BeEmpty())
		})

		It("ignores attachments entirely", func() {
			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona:  "Image Generator",
				Prompt:   "a poster",
				FileName: "notes.sql",
				FileData: []byte("SELECT 1;"),
			})
			Expect(err).NotTo(HaveOccurred())

			userMsg := sess.Messages()[0]
			Expect(userMsg.Content).To(Equal("a poster"))
			Expect(userMsg.Image).To(BeNil())
		})

		It("stores the rendered error when generation fails", func() {
			dummy.ImageErr = errors.New("boom")

			result, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona: "Image Generator",
				Prompt:  "a poster",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Assistant.Content).To(Equal("Error generating image: boom"))
			Expect(result.Assistant.GeneratedImage).To(BeNil())
		})

		It("stores the no-image string when the response carries no image", func() {
			dummy.Image = nil

			result, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona: "Image Generator",
				Prompt:  "a poster",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Assistant.Content).To(Equal("Failed to generate image. No valid image returned."))
		})
	})

	Context("gateway faults during text generation", func() {
		It("stores the rendered error and keeps the user message", func() {
			dummy.TextErr = errors.New("timeout")

			result, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona: "General Assistant",
				Prompt:  "hello",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Assistant.Content).To(Equal("Sorry, an error occurred: timeout"))

			msgs := sess.Messages()
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].Content).To(Equal("hello"))
		})
	})

	Context("with an unknown persona", func() {
		It("fails before touching the session", func() {
			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona: "Nonexistent Tool",
				Prompt:  "hi",
			})
			Expect(errors.Is(err, assistant.ErrUnknownPersona)).To(BeTrue())
			Expect(sess.Len()).To(Equal(0))
		})
	})

	Context("confirmed clear", func() {
		It("empties the session and the transcript", func() {
			_, err := svc.RunTurn(ctx, sessionID, sess, assistant.TurnInput{
				Persona: "General Assistant",
				Prompt:  "hi",
			})
			Expect(err).NotTo(HaveOccurred())

			sess.RequestClear()
			Expect(svc.ConfirmClear(ctx, sessionID, sess)).To(Succeed())

			Expect(sess.Len()).To(Equal(0))
			history, err := recorder.History(ctx, sessionID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(BeEmpty())
		})
	})
})
