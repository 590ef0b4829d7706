package agent

import "fmt"

// EmptyQuestionMessage is returned for blank input without running the pipeline.
const EmptyQuestionMessage = "Please type a question and I'll do my best to help."

func escalatedMessage(contact string) string {
	return fmt.Sprintf(`I'm sorry, but I don't have enough information to answer your question.

I've forwarded your inquiry to our human support team at %s, and they will get back to you as soon as possible.

Is there anything else I can help you with based on our frequently asked questions?`, contact)
}

func escalationFailedMessage(contact string) string {
	return fmt.Sprintf(`I'm sorry, but I don't have enough information to answer your question and I'm unable to send your request to our support team at the moment.

Please try contacting us directly at %s, or let me know if there's anything else I can help you with based on our frequently asked questions.`, contact)
}

func answerFailedMessage(contact string) string {
	return fmt.Sprintf("I'm sorry, I ran into a problem while answering your question. Please try again in a moment, or contact us directly at %s.", contact)
}

func faqAnswerPrompt(faq, question string) string {
	return fmt.Sprintf(`You are a helpful customer service representative. Answer the customer's question using ONLY the information provided in the FAQ data below.

FAQ Data:
%s

Customer Question: %s

Instructions:
- Provide a clear, helpful answer based on the FAQ data
- If the FAQ doesn't have all the details, be honest about what you can provide
- Keep your response concise and friendly
- Do not make up information not present in the FAQ`, faq, question)
}
