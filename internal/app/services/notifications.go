package services

import "fmt"

func proposalNotification(courseName, groupName, examDate string) (subject, body string) {
	subject = fmt.Sprintf("New exam proposal for %s", courseName)
	body = fmt.Sprintf(`
		<html>
		<body>
			<p>Group %s has proposed an exam for <strong>%s</strong> on %s.</p>
			<p>Please review the proposal and either accept it with a room, assistant and time slot, or reject it.</p>
		</body>
		</html>
	`, groupName, courseName, examDate)
	return subject, body
}

func reviewNotification(courseName, decision string) (subject, body string) {
	subject = fmt.Sprintf("Exam proposal for %s was %s", courseName, decision)
	body = fmt.Sprintf(`
		<html>
		<body>
			<p>Your exam proposal for <strong>%s</strong> has been %s by the coordinating professor.</p>
			<p>If it was rejected, you can propose a new date for the same exam.</p>
		</body>
		</html>
	`, courseName, decision)
	return subject, body
}

func rescheduleNotification(courseName, groupName, examDate string) (subject, body string) {
	subject = fmt.Sprintf("Exam for %s rescheduled", courseName)
	body = fmt.Sprintf(`
		<html>
		<body>
			<p>Group %s has proposed a new date for the <strong>%s</strong> exam: %s.</p>
			<p>The proposal is awaiting your review again.</p>
		</body>
		</html>
	`, groupName, courseName, examDate)
	return subject, body
}
